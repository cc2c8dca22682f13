package backend

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/news/auth"
	"github.com/wansing/news/core"
)

var registerTmpl = tmpl(`<h1>Регистрация</h1>

	{{ with index .Errors "" }}
		<div class="alert alert-danger" role="alert">{{ . }}</div>
	{{ end }}

	<form method="post" action="register" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label for="username">Имя пользователя</label>
			<input type="text" class="form-control{{ if index .Errors "username" }} is-invalid{{ end }}" id="username" name="username" maxlength="150" value="{{ .Form.Username }}" autofocus>
			{{ with index .Errors "username" }}
				<div class="invalid-feedback">{{ . }}</div>
			{{ else }}
				<small class="form-text text-muted">Буквы, цифры и символы @/./+/-/_</small>
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
			<label for="password2">Пароль ещё раз</label>
			<input type="password" class="form-control{{ if index .Errors "password2" }} is-invalid{{ end }}" id="password2" name="password2">
			{{ with index .Errors "password2" }}
				<div class="invalid-feedback">{{ . }}</div>
			{{ end }}
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary">Зарегистрироваться</button>
		</div>
	</form>`)

type registerData struct {
	*context
	Form   *core.RegisterForm
	Errors core.FormErrors
}

func register(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var data = &registerData{
		context: ctx,
		Form:    &core.RegisterForm{},
	}

	if req.Method == http.MethodPost {

		form, err := ctx.RegisterForm()
		fe, err := formErrors(err)
		if err != nil {
			return err
		}
		data.Form = form

		if fe == nil {
			// creates the user and logs it in
			err := ctx.Register(form.Username, form.Password)
			switch {
			case err == nil:
				ctx.SuccessSeeOther("Успешная регистрация", "/edit")
				return nil
			case errors.Is(err, auth.ErrUserExists):
				fe = core.FormErrors{"username": "Пользователь с таким именем уже существует."}
			case errors.Is(err, auth.ErrEmptyName):
				fe = core.FormErrors{"username": "Обязательное поле."}
			case errors.Is(err, auth.ErrEmptyPassword):
				fe = core.FormErrors{"password": "Обязательное поле."}
			default:
				return err
			}
		}

		data.Errors = fe
	}

	return registerTmpl.Execute(w, data)
}
