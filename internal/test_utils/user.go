package test_utils

import (
	"context"

	"github.com/stayhub/stayhub/pkg/user"
)

const TestUserId int64 = 123

// UserContext returns a context carrying the standard test user, the same
// way the HTTP middleware does for real requests.
func UserContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: TestUserId})
}
