package handler

import (
	"log/slog"
	"net/http"

	"shop/internal/delivery/http/response"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/service"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OAuthHandlerParams holds dependencies for OAuthHandler, injected by Fx.
type OAuthHandlerParams struct {
	fx.In

	MemberUC usecase.MemberUsecase
	Logger   *slog.Logger
}

// OAuthHandler serves the social login redirects.
type OAuthHandler struct {
	memberUC usecase.MemberUsecase
	logger   *slog.Logger
}

// NewOAuthHandler is the constructor for OAuthHandler.
func NewOAuthHandler(params OAuthHandlerParams) *OAuthHandler {
	return &OAuthHandler{
		memberUC: params.MemberUC,
		logger:   params.Logger,
	}
}

// CallbackQuery is the query string of an authorization code redirect
type CallbackQuery struct {
	Code             string `query:"code"`
	State            string `query:"state"`
	Error            string `query:"error"`
	ErrorDescription string `query:"error_description"`
}

// IDTokenRequest carries an ID token obtained by a client-side sign-in
type IDTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Login starts the social login. With redirect=true the browser is sent to the
// provider, otherwise the URL is returned.
func (h *OAuthHandler) Login(c echo.Context) error {
	authURL, err := h.memberUC.SocialLoginURL(c.Request().Context(), c.Param("provider"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, authURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{"authorization_url": authURL})
}

// Callback completes the authorization code flow and returns an access token.
func (h *OAuthHandler) Callback(c echo.Context) error {
	provider := c.Param("provider")

	var query CallbackQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return response.BindingError(c, "Invalid callback query")
	}

	if query.Error != "" {
		h.logger.WarnContext(c.Request().Context(), "Provider rejected social login",
			slog.String("provider", provider),
			slog.String("error", query.Error),
			slog.String("description", query.ErrorDescription),
		)

		return response.HandleAppError(c, domainerrors.ErrOAuthFailed.WithDetails(query.Error))
	}
	if query.Code == "" {
		return response.BadRequest(c, domainerrors.ErrValidationFailed.ErrorCode(), "Authorization code is missing")
	}

	output, err := h.memberUC.SocialLoginWithCode(c.Request().Context(), &usecase.SocialCallbackInput{
		Provider: provider,
		Code:     query.Code,
		State:    query.State,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newTokenResponse(output))
}

// GoogleIDToken signs in with a Google ID token.
func (h *OAuthHandler) GoogleIDToken(c echo.Context) error {
	var req IDTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid ID token input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	output, err := h.memberUC.SocialLoginWithIDToken(c.Request().Context(), service.ProviderGoogle, req.IDToken)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newTokenResponse(output))
}
