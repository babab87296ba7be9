package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the key marking a JWT id as logged out.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// LastImportReportKey returns the key holding the most recent CSV load report.
func (r *CacheKeyStruct) LastImportReportKey() string {
	return "ingest:last_report"
}

var CacheKey = NewCacheKeyStruct()
