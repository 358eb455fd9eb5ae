package authform

import (
	"context"
	"errors"
	"net/url"

	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/notify"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
	"github.com/Goofygiraffe06/prepwise/internal/validate"
)

// State tracks one submission attempt.
type State int

const (
	Idle State = iota
	Validating
	Success
	ValidationError
	UnexpectedError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Success:
		return "success"
	case ValidationError:
		return "validation-error"
	case UnexpectedError:
		return "unexpected-error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the attempt has finished.
func (s State) Terminal() bool {
	return s == Success || s == ValidationError || s == UnexpectedError
}

const (
	SignUpSuccessMessage = "Account created successfully. Please sign in."
	SignInSuccessMessage = "Signed in successfully."
	errorMessagePrefix   = "There was an error: "
	genericDescription   = "something went wrong, please try again"
)

// userFacing is implemented by errors whose message may be shown verbatim.
type userFacing interface {
	UserMessage() string
}

// Authenticator performs the account operation behind a valid submission.
type Authenticator interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (models.Account, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.Account, error)
}

// Result is the outcome of one Submit.
type Result struct {
	State State
	// Values echoes what the user entered, password excluded.
	Values      map[string]string
	FieldErrors validate.FieldErrors
	Toast       *notify.Toast
	// Redirect is empty unless State is Success.
	Redirect string
	Account  models.Account
}

// Form is the per-request form instance. Its state is not shared.
type Form struct {
	mode  Mode
	auth  Authenticator
	state State
}

func New(mode Mode, auth Authenticator) *Form {
	return &Form{mode: mode, auth: auth, state: Idle}
}

func (f *Form) Mode() Mode { return f.mode }

func (f *Form) State() State { return f.state }

func (f *Form) Fields() []Field { return Fields(f.mode) }

// Submit validates values against the mode's schema and, when they pass,
// runs the account operation. Every call ends in a terminal state.
func (f *Form) Submit(ctx context.Context, values url.Values) Result {
	f.state = Validating
	payload := bind(f.mode, values)
	res := Result{Values: echo(payload)}

	if errs := validate.Struct(payload); errs != nil {
		f.state = ValidationError
		res.State = f.state
		res.FieldErrors = errs
		return res
	}

	account, err := f.run(ctx, payload)
	if err != nil {
		logging.ErrorLog("Auth form %s failed [%s]: %v", f.mode, utils.HashEmail(res.Values["email"]), err)
		f.state = UnexpectedError
		res.State = f.state
		res.Toast = notify.Error(errorMessagePrefix + describe(err))
		return res
	}

	f.state = Success
	res.State = f.state
	res.Account = account
	if f.mode == SignUp {
		res.Toast = notify.Success(SignUpSuccessMessage)
		res.Redirect = SignIn.Path()
	} else {
		res.Toast = notify.Success(SignInSuccessMessage)
		res.Redirect = "/"
	}
	return res
}

func (f *Form) run(ctx context.Context, payload any) (models.Account, error) {
	if f.auth == nil {
		return models.Account{}, errors.New("no authenticator configured")
	}
	switch req := payload.(type) {
	case models.SignUpRequest:
		return f.auth.SignUp(ctx, req)
	case models.SignInRequest:
		return f.auth.SignIn(ctx, req)
	default:
		return models.Account{}, errors.New("unsupported form payload")
	}
}

func echo(payload any) map[string]string {
	switch req := payload.(type) {
	case models.SignUpRequest:
		return map[string]string{"name": req.Name, "email": req.Email}
	case models.SignInRequest:
		return map[string]string{"email": req.Email}
	}
	return map[string]string{}
}

// describe returns the part of err the user may see. Internal error chains
// are logged by the caller and replaced with a generic description.
func describe(err error) string {
	var uf userFacing
	switch {
	case errors.As(err, &uf):
		return uf.UserMessage()
	case errors.Is(err, context.DeadlineExceeded):
		return "the request took too long, please try again"
	case errors.Is(err, context.Canceled):
		return "the request was cancelled"
	default:
		return genericDescription
	}
}
