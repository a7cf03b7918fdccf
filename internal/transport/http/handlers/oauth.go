package http_handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/security"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/logger"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/dto"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/response"
)

// ProviderFlow is the provider surface the OAuth handler needs: build the
// authorization URL and exchange the callback code for a provider identity.
type ProviderFlow interface {
	Enabled(p domain.Provider) bool
	AuthCodeURL(p domain.Provider, state string) (string, error)
	Exchange(ctx context.Context, p domain.Provider, code string) (auth.ProviderUserInfo, error)
}

// OAuthHandler drives the browser sign-in flow against Google and GitHub.
type OAuthHandler struct {
	svc           *auth.Service
	flow          ProviderFlow
	states        auth.OAuthStateStore
	refreshTTL    time.Duration
	secureCookies bool
}

func NewOAuthHandler(svc *auth.Service, flow ProviderFlow, states auth.OAuthStateStore, refreshTTL time.Duration, secureCookies bool) *OAuthHandler {
	return &OAuthHandler{
		svc:           svc,
		flow:          flow,
		states:        states,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

// Start begins the flow: mint a one-time state token, then redirect the
// browser to the provider's consent page.
// GET /oauth/{provider}/start
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	p, err := h.providerFromRequest(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	state, err := h.states.Create(r.Context(), auth.OAuthStateData{Provider: string(p)})
	if err != nil {
		response.WriteError(w, r, domain.ErrInternal(err))
		return
	}

	url, err := h.flow.AuthCodeURL(p, state)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// Callback completes the flow: verify state, exchange the code, reconcile
// the provider identity into a local account, and issue tokens.
// GET /oauth/{provider}/callback?code=...&state=...
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	p, err := h.providerFromRequest(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if errCode := r.URL.Query().Get("error"); errCode != "" {
		response.WriteError(w, r, domain.WithMeta(
			domain.New(domain.KindAuth, "oauth_denied", "provider returned an error"),
			map[string]string{"provider_error": errCode},
		))
		return
	}

	code := r.URL.Query().Get("code")
	stateTok := r.URL.Query().Get("state")
	if code == "" {
		response.WriteError(w, r, domain.ErrMissingField("code"))
		return
	}
	if stateTok == "" {
		response.WriteError(w, r, domain.ErrMissingField("state"))
		return
	}

	state, err := h.states.Consume(r.Context(), stateTok)
	if err != nil {
		response.WriteError(w, r, domain.New(domain.KindAuth, "oauth_state_invalid", "state token not found or expired"))
		return
	}
	if state.Provider != string(p) {
		response.WriteError(w, r, domain.New(domain.KindAuth, "oauth_state_invalid", "state token issued for a different provider"))
		return
	}

	info, err := h.flow.Exchange(r.Context(), p, code)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, created, err := h.svc.Reconcile(r.Context(), info)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("provider", string(p)).
		Bool("created", created).
		Msg("oauth_signin")

	security.SetRefreshToken(w, res.Tokens.RefreshToken, h.refreshTTL, h.secureCookies)

	data := dto.AuthData{
		User:   dto.NewUserView(res.User),
		Tokens: tokensView(res.Tokens),
	}
	if created {
		response.Created(w, data)
		return
	}
	response.OK(w, data)
}

func (h *OAuthHandler) providerFromRequest(r *http.Request) (domain.Provider, error) {
	raw := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "provider")))
	p := domain.Provider(raw)

	if p == domain.ProviderLocal || !domain.IsValidProvider(raw) {
		return "", domain.ErrUnsupportedProvider(raw)
	}
	if !h.flow.Enabled(p) {
		return "", domain.ErrUnsupportedProvider(raw)
	}
	return p, nil
}
