package tenantware

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "header:" + router.HeaderAuthorization

	// ErrMissingToken is returned when no extractor finds a token.
	ErrMissingToken = errors.New("missing or malformed token", errors.CategoryBadInput).
			WithTextCode("auth_token_missing").
			WithCode(errors.CodeBadRequest)

	// ErrTenantHeaderMissing is returned when RequireTenantHeader is set
	// and the request carries no tenant header.
	ErrTenantHeaderMissing = errors.New("tenant header required", errors.CategoryBadInput).
				WithTextCode("auth_tenant_header_required").
				WithCode(errors.CodeBadRequest)

	// ErrContextMismatch is returned when RequiredContext is set and the
	// resolved principal belongs to the other context.
	ErrContextMismatch = errors.New("wrong identity context", errors.CategoryAuthz).
				WithTextCode("auth_wrong_context").
				WithCode(errors.CodeForbidden)
)

// Principal mirrors the auth package's principal surface without importing
// it, keeping this middleware free of import cycles.
type Principal interface {
	Context() string
}

// TenantPrincipal is the tenant-scoped extension of Principal.
type TenantPrincipal interface {
	Principal
	TenantSlug() string
}

// PrincipalResolver turns a raw token into a Principal. Implementations
// are expected to re-validate tenant and user liveness on every call.
type PrincipalResolver interface {
	ResolvePrincipal(ctx router.Context, rawToken string) (Principal, error)
}

// ResolverFunc adapts a function to PrincipalResolver.
type ResolverFunc func(ctx router.Context, rawToken string) (Principal, error)

func (f ResolverFunc) ResolvePrincipal(ctx router.Context, rawToken string) (Principal, error) {
	return f(ctx, rawToken)
}

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(router.Context) bool

	// SuccessHandler runs after the principal is stored. Defaults to Next.
	SuccessHandler router.HandlerFunc

	// ErrorHandler maps failures to responses.
	ErrorHandler router.ErrorHandler

	// Resolver is required.
	Resolver PrincipalResolver

	// ContextKey is the locals key the principal is stored under.
	ContextKey string

	// TokenLookup is a comma separated list of source:name pairs, e.g.
	// "header:Authorization,query:token".
	TokenLookup string

	// AuthScheme is the header scheme stripped from header tokens.
	AuthScheme string

	// RequiredContext restricts the route to one identity context
	// ("core" or "tenant"). Empty admits both.
	RequiredContext string

	// RequireTenantHeader enforces presence and agreement of the tenant
	// header for tenant principals.
	RequireTenantHeader bool

	// TenantHeader names the tenant selection header.
	TenantHeader string

	// ContextEnricher propagates the principal into the request's
	// standard context after resolution.
	ContextEnricher func(ctx router.Context, p Principal) error
}

// New builds the principal-resolving middleware.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			principal, err := cfg.Resolver.ResolvePrincipal(ctx, raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := cfg.checkContext(principal); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := cfg.checkTenantHeader(ctx, principal); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, principal)

			if cfg.ContextEnricher != nil {
				if err := cfg.ContextEnricher(ctx, principal); err != nil {
					return cfg.ErrorHandler(ctx, err)
				}
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func (cfg *Config) checkContext(p Principal) error {
	if cfg.RequiredContext == "" {
		return nil
	}
	if p.Context() != cfg.RequiredContext {
		clone := ErrContextMismatch.Clone()
		clone.Source = ErrContextMismatch
		return clone.WithMetadata(map[string]any{
			"required": cfg.RequiredContext,
			"actual":   p.Context(),
		})
	}
	return nil
}

func (cfg *Config) checkTenantHeader(ctx router.Context, p Principal) error {
	if !cfg.RequireTenantHeader {
		return nil
	}

	tenant, ok := p.(TenantPrincipal)
	if !ok {
		return nil
	}

	declared := ctx.Header(cfg.TenantHeader)
	if declared == "" {
		return ErrTenantHeaderMissing
	}

	if declared != tenant.TenantSlug() {
		clone := ErrContextMismatch.Clone()
		clone.Source = ErrContextMismatch
		clone.Message = "tenant mismatch"
		return clone.WithMetadata(map[string]any{
			"declared": declared,
			"bound":    tenant.TenantSlug(),
		})
	}

	return nil
}

func ExtractRawTokenFromContext(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			var rich *errors.Error
			if errors.As(err, &rich) && rich.Code != 0 {
				return c.Status(rich.Code).SendString(rich.Message)
			}
			return c.Status(router.StatusUnauthorized).SendString("invalid or expired token")
		}
	}

	if cfg.Resolver == nil {
		panic("AUTH: tenantware configuration: Resolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.TenantHeader == "" {
		cfg.TenantHeader = "X-Tenant"
	}

	return cfg
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:token,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

type TokenExtractor func(c router.Context) (string, error)

// tokenFromHeader returns a function that extracts a token from the request header.
func tokenFromHeader(header string, authScheme string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		l := len(authScheme)
		if l == 0 {
			fmt.Println("[WARNING] Missing auth scheme in config definition")
			return "", ErrMissingToken
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrMissingToken
	}
}

// tokenFromQuery returns a function that extracts a token from the query string.
func tokenFromQuery(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// tokenFromParam returns a function that extracts a token from the url param string.
func tokenFromParam(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts a token from the named cookie.
func tokenFromCookie(name string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}
