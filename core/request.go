package core

import (
	"context"
	"encoding/gob"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog/log"
	"github.com/wansing/news/auth"
	"golang.org/x/text/language"
)

type Notification struct {
	Message string
	Style   string
}

func init() {
	gob.Register([]Notification{}) // required for storing Notifications in a session
}

var langMatcher = language.NewMatcher([]language.Tag{
	language.Russian, // default
	language.AmericanEnglish,
})

// genitive case, as in "2 января 2006"
var monthNamesRu = strings.NewReplacer(
	"January", "января",
	"February", "февраля",
	"March", "марта",
	"April", "апреля",
	"May", "мая",
	"June", "июня",
	"July", "июля",
	"August", "августа",
	"September", "сентября",
	"October", "октября",
	"November", "ноября",
	"December", "декабря",
)

// A Request is created by CoreDB.NewRequest.
type Request struct {
	db   *CoreDB // unexported, so it can't be accessed in templates
	User auth.User

	// http
	writer  http.ResponseWriter
	request *http.Request

	// robustness
	statusWritten bool

	// caching
	language language.Tag
}

// NewRequest creates a Request with the given http.ResponseWriter and http.Request.
// If a user is logged in, it sets Request.User.
func (c *CoreDB) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		db:      c,
		writer:  w,
		request: httpreq,
	}

	req.language, _ = language.MatchStrings(langMatcher, httpreq.Header.Get("Accept-Language"), c.DefaultLanguage)

	if uid := c.SessionManager.GetInt(httpreq.Context(), "uid"); uid != 0 {
		u, err := c.Auth.GetUser(httpreq.Context(), uid)
		if u != nil && err == nil {
			req.User = u
		} else {
			log.Debug().Err(err).Int("uid", uid).Msg("ignoring session of unknown user")
		}
	}

	return req
}

func (req *Request) Context() context.Context {
	return req.request.Context()
}

// Danger adds a "danger" notification to the session.
func (req *Request) Danger(message string) {
	req.addNotification(message, "danger")
}

// Success adds a "success" notification to the session.
func (req *Request) Success(message string) {
	req.addNotification(message, "success")
}

// SuccessSeeOther adds a "success" notification and redirects to location.
// Every successful mutation ends with it.
func (req *Request) SuccessSeeOther(message string, location string) {
	req.Success(message)
	req.SeeOther(location)
}

// style should be a bootstrap alert style without the leading "alert-"
func (req *Request) addNotification(message, style string) {
	notifications, _ := req.db.SessionManager.Get(req.Context(), "notifications").([]Notification)
	notifications = append(notifications, Notification{message, style})
	req.db.SessionManager.Put(req.Context(), "notifications", notifications)
}

// RenderNotifications removes all notifications from the session
// and renders them into an HTML string.
// If the HTTP status had already been written, it does nothing.
func (req *Request) RenderNotifications() template.HTML {
	var r string
	if !req.statusWritten {
		notifications, _ := req.db.SessionManager.Pop(req.Context(), "notifications").([]Notification)
		for _, n := range notifications {
			r += `<div class="alert alert-` + n.Style + ` mt-3" role="alert">` + html.EscapeString(n.Message) + `</div>`
		}
	}
	return template.HTML(r)
}

// Cleanup destroys the session (which means re-setting the cookie with zero lifetime) if the session has been modified and is empty now.
func (req *Request) Cleanup() {
	sessMan := req.db.SessionManager
	if sessMan.Status(req.Context()) == scs.Modified && len(sessMan.Keys(req.Context())) == 0 {
		_ = sessMan.Destroy(req.Context())
	}
}

// SeeOther sets the HTTP header to redirect to an URL.
func (req *Request) SeeOther(format string, args ...interface{}) {
	if req.statusWritten {
		return
	}
	var url = fmt.Sprintf(format, args...)
	http.Redirect(req.writer, req.request, url, http.StatusSeeOther)
	req.statusWritten = true
}

// WriteStatus writes an HTTP status code unless one has been written already.
func (req *Request) WriteStatus(code int) {
	if req.statusWritten {
		return
	}
	req.writer.WriteHeader(code)
	req.statusWritten = true
}

// Login tries to log in a user. On success, the user id is stored in the session.
func (req *Request) Login(name string, enteredPass string) error {
	if req.LoggedIn() {
		return nil
	}
	u, err := req.db.Auth.LoginUser(req.Context(), name, enteredPass)
	if err != nil {
		return err // is auth.ErrAuth if name or enteredPass is wrong
	}
	return req.startSession(u)
}

// Register creates a user and logs it in.
func (req *Request) Register(name string, pass string) error {
	u, err := req.db.Auth.Register(req.Context(), name, pass)
	if err != nil {
		return err
	}
	return req.startSession(u)
}

func (req *Request) startSession(u auth.User) error {
	// new token on privilege change, against session fixation
	if err := req.db.SessionManager.RenewToken(req.Context()); err != nil {
		return err
	}
	req.db.SessionManager.Put(req.Context(), "uid", u.ID())
	req.User = u
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.User != nil
}

// IsAuthor returns whether the logged-in user has written the article.
func (req *Request) IsAuthor(a *Article) bool {
	return RequireAuthor(req.User, a) == nil
}

// Logout removes the user id from the session and calls req.Cleanup().
func (req *Request) Logout() {
	if req.LoggedIn() {
		req.db.SessionManager.Remove(req.Context(), "uid")
		req.User = nil
	}
	req.Cleanup()
}

// Lang returns the base language of the request, like "ru".
func (req *Request) Lang() string {
	b, _ := req.language.Base()
	return b.String()
}

func (req *Request) FormatDateTime(ts int64) string {
	switch req.Lang() {
	case "en":
		return time.Unix(ts, 0).Format("January 2, 2006 3:04 PM")
	default:
		return monthNamesRu.Replace(time.Unix(ts, 0).Format("2 January 2006 15:04"))
	}
}
