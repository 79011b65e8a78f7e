package interfaces

import "errors"

// ErrMissingReference 写入的记录引用了不存在的行，例如令牌中的用户在 users 表中没有记录
var ErrMissingReference = errors.New("referenced row does not exist")
