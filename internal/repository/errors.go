package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolationCode はPostgreSQLの一意性制約違反のSQLSTATEコード。
const uniqueViolationCode = "23505"

// IsUniqueViolation はエラーが一意性制約違反かどうかを判定する。
// 並行した発見リクエストがlookupとinsertの間で競合した場合、
// ストア側の一意制約がこのエラーを発生させる。呼び出し側は
// これを未処理エラーとして伝播させず、競合（CONFLICT）として扱う。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
