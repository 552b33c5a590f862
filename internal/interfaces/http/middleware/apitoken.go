package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/application/apitoken/usecases"
	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/infrastructure/ratelimit"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

const apiTokenWindow = constants.RateLimitWindowSeconds * time.Second

type TokenAuthenticator interface {
	Execute(ctx context.Context, cmd usecases.AuthenticateTokenCommand) (*usecases.AuthenticateTokenResult, error)
}

// UsageRecorder queues a last-used update. It must not block.
type UsageRecorder interface {
	Enqueue(tokenID uint, usedAt time.Time) bool
}

type APITokenMiddleware struct {
	authenticator TokenAuthenticator
	counter       ratelimit.Counter
	recorder      UsageRecorder
	now           func() time.Time
	logger        logger.Interface
}

func NewAPITokenMiddleware(
	authenticator TokenAuthenticator,
	counter ratelimit.Counter,
	recorder UsageRecorder,
	logger logger.Interface,
) *APITokenMiddleware {
	return &APITokenMiddleware{
		authenticator: authenticator,
		counter:       counter,
		recorder:      recorder,
		now:           biztime.NowUTC,
		logger:        logger,
	}
}

// Require authenticates the bearer token, checks it grants permission and counts the
// request against the token's per-minute limit.
func (m *APITokenMiddleware) Require(permission apitoken.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		plain, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			utils.AbortWithError(c, errors.NewUnauthorizedError("missing or malformed authorization header"))
			return
		}

		result, err := m.authenticator.Execute(c.Request.Context(), usecases.AuthenticateTokenCommand{
			PlainToken: plain,
			Required:   permission,
		})
		if err != nil {
			if !errors.IsAppError(err) {
				m.logger.Errorw("api token authentication failed", "error", err)
			}
			utils.AbortWithError(c, err)
			return
		}
		token := result.Token

		hit, err := m.counter.Hit(c.Request.Context(), "apitoken:"+token.SID(), token.RateLimit(), apiTokenWindow)
		if err != nil {
			// A counter outage must not take the API down with it.
			m.logger.Errorw("api token rate counter unavailable", "error", err, "token_id", token.SID())
		} else {
			setRateLimitHeaders(c, hit)
			if !hit.Allowed {
				m.logger.Warnw("api token rate limited",
					"token_id", token.SID(),
					"limit", hit.Limit,
					"count", hit.Count,
				)
				utils.AbortWithError(c, errors.NewRateLimitedError(constants.ErrMsgRateLimited, constants.RateLimitWindowSeconds))
				return
			}
		}

		if !m.recorder.Enqueue(token.ID(), m.now()) {
			m.logger.Warnw("last used update dropped", "token_id", token.SID())
		}

		c.Set(constants.ContextKeyUserID, result.User.ID())
		c.Set(constants.ContextKeyUserRole, result.User.Role().String())
		c.Set(constants.ContextKeyAPITokenID, token.SID())
		c.Set(constants.ContextKeyAPITokenPermissions, token.Permissions().Strings())

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, hit ratelimit.Result) {
	c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(hit.Limit))
	c.Header(constants.HeaderRateLimitRemaining, strconv.Itoa(hit.Remaining))
	c.Header(constants.HeaderRateLimitReset, strconv.FormatInt(hit.ResetAt.Unix(), 10))
}

// bearerToken extracts the credential of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
