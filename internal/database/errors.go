package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sijms/go-ora/v2/network"
)

const (
	pgUniqueViolation     = pq.ErrorCode("23505")
	oracleUniqueViolation = 1 // ORA-00001
)

// IsUniqueViolation reports whether err is a unique or primary key
// constraint violation from any supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode == oracleUniqueViolation
	}

	return false
}
