package auth

import (
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-tenant-auth/middleware/tenantware"
)

// AuthResponse is the JSON body for successful login and registration.
type AuthResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message,omitempty"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	UserID       string  `json:"user_id"`
	Context      Context `json:"context"`
}

// AuthControllerRoutes maps the controller's route paths.
type AuthControllerRoutes struct {
	Register      string
	Login         string
	Refresh       string
	Organizations string
	Me            string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Auther       *Auther
	TenantUsers  TenantUserStore
	Orgs         OrganizationStore
	Config       Config
	Routes       *AuthControllerRoutes
	ErrorHandler func(router.Context, error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func WithControllerStores(tenantUsers TenantUserStore, orgs OrganizationStore) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.TenantUsers = tenantUsers
		c.Orgs = orgs
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:      "/auth/register",
			Login:         "/auth/login",
			Refresh:       "/auth/refresh",
			Organizations: "/organizations",
			Me:            "/users/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.Config == nil {
		c.Config = SimpleConfig{}
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.handleError
	}

	return c
}

// RegisterAuthRoutes mounts the controller on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)
	protected := controller.Protected()

	app.Post(controller.Routes.Register, controller.Register).
		SetName("auth.register")
	app.Post(controller.Routes.Login, controller.Login).
		SetName("auth.login")
	app.Post(controller.Routes.Refresh, controller.Refresh).
		SetName("auth.refresh")

	app.Post(controller.Routes.Organizations, controller.CreateOrganization, protected).
		SetName("organizations.create")

	app.Get(controller.Routes.Me, controller.Me, protected).
		SetName("users.me.get")
	app.Put(controller.Routes.Me, controller.UpdateMe, protected).
		SetName("users.me.put")

	return controller
}

// Protected builds the principal-resolving middleware wired to this
// controller's resolver and config.
func (a *AuthController) Protected() router.MiddlewareFunc {
	resolver := a.Auther.ContextResolver()
	return tenantware.New(tenantware.Config{
		Resolver: tenantware.ResolverFunc(func(ctx router.Context, raw string) (tenantware.Principal, error) {
			return resolver.Resolve(ctx.Context(), raw)
		}),
		ContextKey:  a.Config.GetContextKey(),
		TokenLookup: a.Config.GetTokenLookup(),
		AuthScheme:  a.Config.GetAuthScheme(),
		ErrorHandler: func(ctx router.Context, err error) error {
			return a.ErrorHandler(ctx, err)
		},
		ContextEnricher: func(ctx router.Context, p tenantware.Principal) error {
			if principal, ok := p.(Principal); ok {
				ctx.SetContext(WithPrincipal(ctx.Context(), principal))
			}
			return nil
		},
	})
}

// Register creates a user. The tenant selection header switches between
// core and tenant registration.
func (a *AuthController) Register(ctx router.Context) error {
	tenantSlug := ctx.Header(a.Config.GetTenantHeader())

	if tenantSlug == "" {
		payload := new(RegisterUserMessage)
		if err := ctx.Bind(payload); err != nil {
			return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
		}

		a.debugDump("AUTH REGISTER CORE", payload)

		result, err := a.Auther.RegisterCore(ctx.Context(), *payload)
		if err != nil {
			return a.ErrorHandler(ctx, err)
		}
		return ctx.JSON(router.StatusCreated, authResponse(result, "user registered"))
	}

	payload := new(RegisterTenantUserMessage)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	a.debugDump("AUTH REGISTER TENANT", payload)

	result, err := a.Auther.RegisterTenant(ctx.Context(), tenantSlug, *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusCreated, authResponse(result, "user registered"))
}

// Login authenticates a user in the context selected by the tenant header.
func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid login payload"))
	}

	a.debugDump("AUTH LOGIN", map[string]any{"email": payload.Email})

	tenantSlug := ctx.Header(a.Config.GetTenantHeader())

	result, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password, tenantSlug)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, authResponse(result, "login successful"))
}

// Refresh exchanges a refresh token for a new access token.
func (a *AuthController) Refresh(ctx router.Context) error {
	payload := new(RefreshRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid refresh payload"))
	}

	access, err := a.Auther.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"access_token": access,
	})
}

// CreateOrganization creates an organization owned by the calling core user.
func (a *AuthController) CreateOrganization(ctx router.Context) error {
	principal, ok := GetRouterPrincipal(ctx, a.Config.GetContextKey())
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	core, err := RequireCore(principal)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(CreateOrganizationMessage)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	org, err := a.Auther.CreateOrganization(ctx.Context(), core.ID, *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, org)
}

// Me returns the authenticated tenant user's profile.
func (a *AuthController) Me(ctx router.Context) error {
	tenant, err := a.requireTenantRequest(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user, err := a.TenantUsers.FindByID(ctx.Context(), tenant.OrgID, tenant.ID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

// UpdateMe updates the authenticated tenant user's profile.
func (a *AuthController) UpdateMe(ctx router.Context) error {
	tenant, err := a.requireTenantRequest(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(UpdateProfileMessage)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid profile payload"))
	}

	user, err := a.TenantUsers.FindByID(ctx.Context(), tenant.OrgID, tenant.ID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload.Apply(user)

	updated, err := a.TenantUsers.Update(ctx.Context(), user)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (a *AuthController) requireTenantRequest(ctx router.Context) (TenantPrincipal, error) {
	principal, ok := GetRouterPrincipal(ctx, a.Config.GetContextKey())
	if !ok {
		return TenantPrincipal{}, ErrUnauthenticated
	}

	headerSlug := ctx.Header(a.Config.GetTenantHeader())
	return RequireTenantHeaderMatch(principal, headerSlug)
}

func (a *AuthController) handleError(ctx router.Context, err error) error {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		a.Logger.Error("unhandled controller error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]any{
			"error": "internal server error",
		})
	}

	status := rich.Code
	if status == 0 {
		status = statusFromCategory(rich.Category)
	}

	if a.Debug {
		fmt.Println("======= AUTH ERROR ======")
		fmt.Println(print.MaybePrettyJSON(rich))
		fmt.Println("=========================")
	}

	body := map[string]any{
		"error": rich.Message,
	}
	if rich.TextCode != "" {
		body["text_code"] = rich.TextCode
	}

	return ctx.JSON(status, body)
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryBadInput, errors.CategoryValidation:
		return router.StatusBadRequest
	case errors.CategoryNotFound:
		return router.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusConflict
	default:
		return router.StatusInternalServerError
	}
}

func authResponse(result *AuthResult, message string) AuthResponse {
	return AuthResponse{
		Success:      true,
		Message:      message,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		UserID:       result.UserID.String(),
		Context:      result.Context,
	}
}

func (a *AuthController) debugDump(label string, payload any) {
	if !a.Debug {
		return
	}
	fmt.Println("======= " + label + " ======")
	fmt.Println(print.MaybePrettyJSON(payload))
	fmt.Println("=========================")
}
