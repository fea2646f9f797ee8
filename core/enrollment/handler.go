package enrollment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/core/notice"
	"github.com/irsalhamdi/learner-portal/upstream"
	"github.com/irsalhamdi/learner-portal/validate"
)

const (
	enrollKey       = "enroll-status"
	unenrollKey     = "unenroll-status"
	subscriptionKey = "subscription-status"
)

// Result is the outcome of every enrollment mutation. The notification is
// also queued for the next page load.
type Result struct {
	OK           bool          `json:"ok"`
	Notification notice.Notice `json:"notification"`
}

type Deps struct {
	Client       *upstream.Client
	Notices      *notice.Queue
	SupportEmail string
	Log          logrus.FieldLogger
}

// respond queues the notification and answers with the result. A failed
// mutation keeps its error for logging but renders the same Result shape.
func (d Deps) respond(ctx context.Context, w http.ResponseWriter, n notice.Notice, cause error) error {
	if err := d.Notices.Add(ctx, n); err != nil {
		d.Log.WithError(err).Warn("queueing notification")
	}

	res := Result{OK: cause == nil, Notification: n}
	if cause == nil {
		return web.Respond(ctx, w, res, http.StatusOK)
	}

	status := http.StatusBadGateway
	if _, s, ok := weberr.Response(upstream.AsWebError(cause)); ok {
		status = s
	}
	return weberr.Wrap(cause, weberr.WithResponse(res, status))
}

func (d Deps) contactSupport() string {
	return fmt.Sprintf("Please contact support at %s.", d.SupportEmail)
}

func (d Deps) enrollment(ctx context.Context, r *http.Request) (*RunEnrollment, error) {
	id, err := web.ParamID(r, "id")
	if err != nil {
		return nil, weberr.BadRequest(err)
	}

	all, err := FetchAll(ctx, d.Client)
	if err != nil {
		return nil, upstream.AsWebError(err)
	}

	e := Find(all, id)
	if e == nil {
		return nil, weberr.NotFound(fmt.Errorf("enrollment %d not found", id))
	}
	return e, nil
}

func decodeValid(w http.ResponseWriter, r *http.Request, val any) error {
	if err := web.Decode(w, r, val); err != nil {
		return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}
	if err := validate.Check(val); err != nil {
		var fe validate.FieldErrors
		if errors.As(err, &fe) {
			return weberr.Invalid(err, fe)
		}
		return weberr.BadRequest(err)
	}
	return nil
}

type enrollRequest struct {
	RunID int `json:"run_id" validate:"required,gt=0"`
}

func HandleEnroll(d Deps) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in enrollRequest
		if err := decodeValid(w, r, &in); err != nil {
			return err
		}

		if err := Enroll(ctx, d.Client, in.RunID); err != nil {
			n := notice.New(enrollKey, notice.Danger, "Something went wrong with your enrollment. "+d.contactSupport())
			return d.respond(ctx, w, n, err)
		}

		n := notice.New(enrollKey, notice.Success, "You have been successfully enrolled.")
		return d.respond(ctx, w, n, nil)
	}
}

func HandleUnenroll(d Deps) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		e, err := d.enrollment(ctx, r)
		if err != nil {
			return err
		}

		if err := Deactivate(ctx, d.Client, e.ID); err != nil {
			n := notice.New(unenrollKey, notice.Danger, "Something went wrong with your request to unenroll. "+d.contactSupport())
			return d.respond(ctx, w, n, err)
		}

		text := fmt.Sprintf("You have been successfully unenrolled from %s.", e.Run.Title)
		return d.respond(ctx, w, notice.New(unenrollKey, notice.Success, text), nil)
	}
}

type subscriptionRequest struct {
	ReceiveEmails *bool `json:"receive_emails" validate:"required"`
}

func HandleSubscription(d Deps) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in subscriptionRequest
		if err := decodeValid(w, r, &in); err != nil {
			return err
		}

		e, err := d.enrollment(ctx, r)
		if err != nil {
			return err
		}

		number := e.Run.CoursewareID
		if e.Run.Course != nil {
			number = e.Run.Course.ReadableID
		}

		if err := SetEmailsSubscription(ctx, d.Client, e.ID, *in.ReceiveEmails); err != nil {
			text := fmt.Sprintf("Something went wrong with your request to course %s emails subscription. %s", number, d.contactSupport())
			return d.respond(ctx, w, notice.New(subscriptionKey, notice.Danger, text), err)
		}

		verb := "unsubscribed from"
		if *in.ReceiveEmails {
			verb = "subscribed to"
		}
		text := fmt.Sprintf("You have been successfully %s course %s emails.", verb, number)
		return d.respond(ctx, w, notice.New(subscriptionKey, notice.Success, text), nil)
	}
}
