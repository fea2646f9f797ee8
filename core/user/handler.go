package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/upstream"
	"github.com/irsalhamdi/learner-portal/validate"
)

// View is the current user along with what the portal still needs from them.
type View struct {
	User            CurrentUser `json:"user"`
	NeedsAddlFields bool        `json:"needs_addl_fields"`
}

func HandleShowCurrent(cl *upstream.Client, addlFieldsEnabled bool) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := Fetch(ctx, cl)
		if err != nil {
			return upstream.AsWebError(err)
		}

		return web.Respond(ctx, w, View{User: u, NeedsAddlFields: u.NeedsAddlFields(addlFieldsEnabled)}, http.StatusOK)
	}
}

func HandleUpdateAddlFields(cl *upstream.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var form AddlFieldsForm
		if err := web.Decode(w, r, &form); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := form.Validate(); err != nil {
			return invalid(err)
		}

		u, err := Fetch(ctx, cl)
		if err != nil {
			return upstream.AsWebError(err)
		}
		if !u.IsAuthenticated {
			return weberr.NotAuthorized(errors.New("anonymous users have no profile"))
		}

		updated, err := Update(ctx, cl, u, form.Apply(u.Profile))
		if err != nil {
			return upstream.AsWebError(err)
		}

		return web.Respond(ctx, w, View{User: updated, NeedsAddlFields: false}, http.StatusOK)
	}
}

// HandleUpdateProfile saves the learner's name, legal address and
// demographics.
func HandleUpdateProfile(cl *upstream.Client, addlFieldsEnabled bool) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var form ProfileForm
		if err := web.Decode(w, r, &form); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := form.Validate(); err != nil {
			return invalid(err)
		}

		u, err := Fetch(ctx, cl)
		if err != nil {
			return upstream.AsWebError(err)
		}
		if !u.IsAuthenticated {
			return weberr.NotAuthorized(errors.New("anonymous users have no profile"))
		}

		u, p, err := form.Apply(u)
		if err != nil {
			return weberr.InternalError(err)
		}

		updated, err := Update(ctx, cl, u, p)
		if err != nil {
			return upstream.AsWebError(err)
		}

		return web.Respond(ctx, w, View{User: updated, NeedsAddlFields: updated.NeedsAddlFields(addlFieldsEnabled)}, http.StatusOK)
	}
}

func invalid(err error) error {
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		return weberr.Invalid(err, fe)
	}
	return err
}
