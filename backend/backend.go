package backend

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/hlog"
	"github.com/wansing/news/core"
	"github.com/wansing/news/util"
)

const excerptRunes = 300

// we need the CoreDB in the views
type context struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func (ctx *context) ImageURL(name string) string {
	return ctx.db.Uploads.URL(name)
}

// article loads the article whose id is in the URL.
func (ctx *context) article(params httprouter.Params) (*core.Article, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return nil, core.ErrNotFound
	}
	return ctx.db.GetArticle(ctx.Context(), id)
}

// formErrors splits err into validation errors and other errors.
func formErrors(err error) (core.FormErrors, error) {
	var fe core.FormErrors
	if errors.As(err, &fe) {
		return fe, nil
	}
	return nil, err
}

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			Prefix:  prefix + "/",
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.SeeOther("/login")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			ctx.renderError(w, req, err)
		}
	}
}

func (ctx *context) renderError(w http.ResponseWriter, req *http.Request, err error) {

	var status int
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		ctx.SeeOther("/login")
		return
	case errors.Is(err, core.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	default:
		hlog.FromRequest(req).Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
		status = http.StatusInternalServerError
		err = errors.New(http.StatusText(status)) // don't leak internals
	}

	ctx.WriteStatus(status)

	// probably no template has been executed, so execute error template
	if err := errorTmpl.Execute(w, struct {
		*context
		Err error
	}{
		context: ctx,
		Err:     err,
	}); err != nil {
		hlog.FromRequest(req).Error().Err(err).Msg("executing error template")
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

func notFound(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	return core.ErrNotFound
}

// NewRouter returns the handler of all views. The session middleware of db.SessionManager must be wrapped around it.
func NewRouter(db *core.CoreDB, prefix string) *httprouter.Router {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, list))
	GETAndPOST("/detail/:id", middleware(db, prefix, false, detail)) // POST requires login, see detail
	GETAndPOST("/login", middleware(db, prefix, false, login))
	GETAndPOST("/logout", middleware(db, prefix, false, logout))
	GETAndPOST("/register", middleware(db, prefix, false, register))

	// private
	GETAndPOST("/delete/:id", middleware(db, prefix, true, del))
	GETAndPOST("/edit", middleware(db, prefix, true, create))
	GETAndPOST("/update/:id", middleware(db, prefix, true, update))

	var notFoundHandle = middleware(db, prefix, false, notFound)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		notFoundHandle(w, req, nil)
	})

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(baseTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var baseTmpl = template.Must(template.New("base").Funcs(
	template.FuncMap{
		"Excerpt": func(body string) string {
			return util.PlainText(strings.NewReader(body), excerptRunes)
		},
	},
).Parse(`
<!DOCTYPE html>
<html lang="{{ .Lang }}">
	<head>
		<base href="{{ .Prefix }}">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css">
		<title>Новости</title>

		<style>

			body {
				padding-bottom: 1rem;
			}

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			h2 {
				font-size: 1.3rem !important;
				margin: 0.2rem 0 0.5rem !important;
			}

			.article-body, .comment-body {
				white-space: pre-line;
			}

			.article-image {
				max-width: 100%;
			}

			.thumbnail {
				max-width: 8rem;
				max-height: 6rem;
			}

		</style>
	</head>
	<body>

		<nav class="navbar navbar-expand-md navbar-light bg-light">
			<a class="navbar-brand" href="">Новости</a>
			<ul class="navbar-nav mr-auto">
				{{ if .LoggedIn }}
					<li class="nav-item">
						<a class="nav-link" href="edit">Новая запись</a>
					</li>
				{{ end }}
			</ul>
			<ul class="navbar-nav">
				{{ if .LoggedIn }}
					<li class="nav-item">
						<span class="navbar-text mr-2" id="username">{{ .User.Name }}</span>
					</li>
					<li class="nav-item">
						<form method="post" action="logout" class="form-inline">
							<button type="submit" class="btn btn-link nav-link">Выйти</button>
						</form>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="login">Войти</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="register">Регистрация</a>
					</li>
				{{ end }}
			</ul>
		</nav>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>

	</body>
</html>`))
