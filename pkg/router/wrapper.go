package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/arkana/pkg/errorx"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := xcontext.WithHTTPRequest(router.root, c.Request)

		resp, err := func() (*Response, error) {
			for _, before := range router.befores {
				newCtx, err := before(ctx)
				if err != nil {
					return nil, err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			var req Request
			var err error
			switch method {
			case http.MethodGet:
				err = c.ShouldBindQuery(&req)
			default:
				err = c.ShouldBindJSON(&req)
				if errors.Is(err, io.EOF) {
					err = nil
				}
			}

			if err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
			}

			return handler(ctx, &req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			c.JSON(statusOf(err), newErrorResponse(err))
		} else {
			c.JSON(http.StatusOK, newResponse(resp))
		}

		for _, after := range router.afters {
			after(ctx)
		}
	}
}
