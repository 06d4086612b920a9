package maintenance

import "strings"

// Policy decides which paths stay reachable while maintenance mode is on.
// Entries ending in "/*" match the prefix and everything below it.
type Policy struct {
	AdminPrefixes []string
	Exempt        []string
}

func DefaultPolicy() Policy {
	return Policy{
		AdminPrefixes: []string{"/admin", "/api/admin"},
		Exempt: []string{
			"/api/settings/maintenance",
			"/api/auth/login",
			"/api/auth/refresh",
			"/health/*",
			"/metrics",
		},
	}
}

func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (p Policy) IsAdminPath(path string) bool {
	for _, pre := range p.AdminPrefixes {
		if hasPathPrefix(path, pre) {
			return true
		}
	}
	return false
}

func (p Policy) IsExempt(path string) bool {
	for _, ex := range p.Exempt {
		if pre, ok := strings.CutSuffix(ex, "/*"); ok {
			if hasPathPrefix(path, pre) {
				return true
			}
			continue
		}
		if path == ex {
			return true
		}
	}
	return false
}

// Allows reports whether a request may proceed. adminToken is true when the
// caller presented a valid admin access token.
func (p Policy) Allows(enabled bool, path string, adminToken bool) bool {
	if !enabled || adminToken {
		return true
	}
	path = strings.TrimSuffix(path, "/")
	return p.IsAdminPath(path) || p.IsExempt(path)
}
