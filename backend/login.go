package backend

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/news/auth"
	"github.com/wansing/news/core"
)

// loginFailed doesn't tell whether the user exists.
const loginFailed = "Неверное имя пользователя или пароль."

var loginTmpl = tmpl(`<h1>Вход</h1>

	{{ with index .Errors "" }}
		<div class="alert alert-danger" role="alert">{{ . }}</div>
	{{ end }}

	<form method="post" action="login" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label for="username">Имя пользователя</label>
			<input type="text" class="form-control{{ if index .Errors "username" }} is-invalid{{ end }}" id="username" name="username" value="{{ .Form.Username }}" autofocus>
			{{ with index .Errors "username" }}
				<div class="invalid-feedback">{{ . }}</div>
			{{ end }}
		</div>
		<div class="form-group">
			<label for="password">Пароль</label>
			<input type="password" class="form-control{{ if index .Errors "password" }} is-invalid{{ end }}" id="password" name="password">
			{{ with index .Errors "password" }}
				<div class="invalid-feedback">{{ . }}</div>
			{{ end }}
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="login">Войти</button>
			<a class="btn btn-link" href="register">Регистрация</a>
		</div>
	</form>`)

type loginData struct {
	*context
	Form   *core.LoginForm
	Errors core.FormErrors
}

func login(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if ctx.LoggedIn() {
		ctx.SeeOther("/edit")
		return nil
	}

	var data = &loginData{
		context: ctx,
		Form:    &core.LoginForm{},
	}

	if req.Method == http.MethodPost {

		form, err := ctx.LoginForm()
		fe, err := formErrors(err)
		if err != nil {
			return err
		}
		data.Form = form // keep POST data for username field

		if fe == nil {
			err := ctx.Login(form.Username, form.Password)
			switch {
			case err == nil:
				ctx.SeeOther("/edit")
				return nil
			case errors.Is(err, auth.ErrAuth):
				fe = core.FormErrors{"": loginFailed}
			default:
				return err
			}
		}

		data.Errors = fe
	}

	return loginTmpl.Execute(w, data)
}
