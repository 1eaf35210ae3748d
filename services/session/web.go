package session

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/tickethub/storefront/lib/mycontext"
	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttp"
	"github.com/tickethub/storefront/lib/myhttpclient"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mystore"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
)

type webService struct {
	service     *service
	cookieName  string
	formDecoder *form.Decoder
	logger      mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(sessionStore mystore.Store[Session], sender myhttpclient.HTTPSender, authAPIURL string, cookieName string, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *webService {
	return &webService{
		service:     newService(sessionStore, sender, authAPIURL, nower, uuider, logger),
		cookieName:  cookieName,
		formDecoder: form.NewDecoder(),
		logger:      logger,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/login", s.loginPage()).Methods("GET")
	router.HandleFunc("/login", s.loginSubmitPage()).Methods("POST")
	router.HandleFunc("/register", s.registerPage()).Methods("GET")
	router.HandleFunc("/register", s.registerSubmitPage()).Methods("POST")
	router.HandleFunc("/logout", s.logoutPage()).Methods("POST")
}

//go:embed templates
var templateFolder embed.FS
var (
	loginPageTemplate    *template.Template
	registerPageTemplate *template.Template
)

func init() {
	loginPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/login.html"))
	registerPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/register.html"))
}

// SessionFromRequest resolves the session cookie into a stored session.
// Returns nil without error when the visitor is not logged in.
func (s webService) SessionFromRequest(c context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	return s.service.getSession(c, cookie.Value)
}

type loginPageData struct {
	Message  string
	Email    string
	ReturnTo string
}

func (s webService) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := loginPageTemplate.Execute(w, loginPageData{
			ReturnTo: r.URL.Query().Get("return"),
		})
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s webService) loginSubmitPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		credentials := Credentials{}
		err = s.formDecoder.Decode(&credentials, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		session, err := s.service.logIn(c, credentials)
		if err != nil {
			// Show the failure on the login page itself, the visitor can retry
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(myerrors.GetHTTPStatus(err))
			loginPageTemplate.Execute(w, loginPageData{
				Message:  "Login failed, check your email and password",
				Email:    credentials.Email,
				ReturnTo: r.PostForm.Get("return"),
			})
			return
		}

		s.setSessionCookie(w, session)
		redirectAfterLogin(w, r)
	}
}

func (s webService) registerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := registerPageTemplate.Execute(w, loginPageData{})
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s webService) registerSubmitPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		registration := Registration{}
		err = s.formDecoder.Decode(&registration, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		session, err := s.service.register(c, registration)
		if err != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(myerrors.GetHTTPStatus(err))
			registerPageTemplate.Execute(w, loginPageData{
				Message: "Registration failed, check your details",
				Email:   registration.Email,
			})
			return
		}

		s.setSessionCookie(w, session)
		redirectAfterLogin(w, r)
	}
}

func (s webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cookie, err := r.Cookie(s.cookieName)
		if err == nil && cookie.Value != "" {
			err = s.service.logOut(c, cookie.Value)
			if err != nil {
				errorWriter.WriteError(c, w, 1, err)
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s webService) setSessionCookie(w http.ResponseWriter, session Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    session.UID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func redirectAfterLogin(w http.ResponseWriter, r *http.Request) {
	target := r.PostForm.Get("return")
	if target == "" || target[0] != '/' {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
