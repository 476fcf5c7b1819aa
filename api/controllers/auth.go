package controllers

import (
	"fmt"
	"net/http"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/api/validators"
	authsvc "github.com/petpal-app/petpal-backend/internal/auth"
	"github.com/petpal-app/petpal-backend/pkg/config"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Terms           bool   `json:"terms"`
}

func (p *registerRequest) fromForm(r *http.Request) {
	p.Username = validators.FormString(r, "username")
	p.Email = validators.FormString(r, "email")
	p.FullName = validators.FormString(r, "full_name")
	p.Password = r.PostFormValue("password")
	p.ConfirmPassword = r.PostFormValue("confirm_password")
	p.Terms = validators.FormBool(r, "terms")
}

// AuthRegister creates a new account. The client is expected to follow up
// with a login; registration does not start an authenticated session.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if validators.IsJSON(r) {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			payload.fromForm(r)
		}

		user, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Username:        payload.Username,
			Email:           payload.Email,
			FullName:        payload.FullName,
			Password:        payload.Password,
			ConfirmPassword: payload.ConfirmPassword,
			AcceptedTerms:   payload.Terms,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated,
			types.NewEnvelope(true, "Account created successfully! Please log in.").
				With("user_id", user.ID))
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthLogin verifies credentials, rotates the session identifier, and binds
// the user to the session. The username field accepts an email too.
func AuthLogin(svc authsvc.Service, sessions *session.Store, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if validators.IsJSON(r) {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			payload.Username = validators.FormString(r, "username")
			payload.Password = r.PostFormValue("password")
		}

		user, err := svc.Login(r.Context(), authsvc.LoginInput{
			Identifier: payload.Username,
			Password:   payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		data := middleware.SessionFromContext(ctx)
		if data == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session unavailable"))
			return
		}

		data.UserID = user.ID
		data.Username = user.Username
		data.FullName = user.FullName
		data.Flash = &session.Flash{Type: "success", Message: fmt.Sprintf("Welcome back, %s!", user.FullName)}

		newSID, err := sessions.Regenerate(ctx, middleware.SIDFromContext(ctx), data)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session"))
			return
		}
		middleware.SetCookie(w, cfg, newSID)

		if logg != nil {
			logg.Info(logg.WithUserID(ctx, user.ID), "auth.login")
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, fmt.Sprintf("Welcome back, %s!", user.FullName)).
			With("user", userResponse(user.ID, user.Username, user.FullName)).
			With("csrf_token", data.CSRFToken))
	}
}

// AuthLogout destroys the session and starts a fresh anonymous one carrying
// only the goodbye flash.
func AuthLogout(sessions *session.Store, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if sid := middleware.SIDFromContext(ctx); sid != "" {
			if err := sessions.Destroy(ctx, sid); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "destroy session"))
				return
			}
		}

		newSID, data, err := sessions.Create(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session"))
			return
		}
		data.Flash = &session.Flash{Type: "success", Message: "You have been logged out successfully."}
		if err := sessions.Save(ctx, newSID, data); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session"))
			return
		}
		middleware.SetCookie(w, cfg, newSID)

		responses.WriteSuccess(w, types.NewEnvelope(true, "You have been logged out successfully."))
	}
}

func userResponse(id int64, username, fullName string) map[string]any {
	return map[string]any{
		"id":        id,
		"username":  username,
		"full_name": fullName,
	}
}
