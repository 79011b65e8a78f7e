package mysql

import (
	"aime-backend/internal/repository/interfaces"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
)

// MySQL 服务端错误号
const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

func errorNumber(err error) uint16 {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

func isDuplicateEntry(err error) bool {
	return errorNumber(err) == errDuplicateEntry
}

// translateWriteError 外键指向的行不存在时返回 interfaces.ErrMissingReference
func translateWriteError(err error) error {
	if errorNumber(err) == errNoReferencedRow {
		return fmt.Errorf("%w: %v", interfaces.ErrMissingReference, err)
	}
	return err
}
