package main

import (
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"fmt"

	"github.com/spf13/cobra"
)

// newTokenCommand 为本地调试与运维脚本签发访问令牌，登录由外部系统负责
func newTokenCommand() *cobra.Command {
	var (
		userID int
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发 24 小时有效的访问令牌",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user 必须为正整数")
			}
			if role != model.RoleStaff && !model.SelfAssignableRole(role) {
				return fmt.Errorf("未知角色: %s", role)
			}

			token, err := util.GenerateToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "用户 ID")
	cmd.Flags().StringVar(&role, "role", model.RoleMember, "令牌中的角色")
	return cmd
}
