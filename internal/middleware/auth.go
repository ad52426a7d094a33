package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/arkana/pkg/authenticator"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/router"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

// VerifyAccessToken reads the bearer token of the request and, if it is valid,
// stores its subject as the request user id. Requests without a valid token
// continue anonymously.
func VerifyAccessToken(engine *authenticator.TokenEngine) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return nil, nil
		}

		auth, token, found := strings.Cut(req.Header.Get("Authorization"), " ")
		if !found || auth != "Bearer" {
			return nil, nil
		}

		userID, err := engine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid access token: %v", err)
			return nil, nil
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}
