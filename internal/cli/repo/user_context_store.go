package repo

// UserContextStore хранит e-mail, под которым выполнен последний вход.
type UserContextStore interface {
	SaveLogin(login string) error
	LoadLogin() (string, error)
}

// SessionStore — сессия vdcli: cookie авторизации и e-mail последнего входа.
type SessionStore interface {
	TokenStore
	UserContextStore
}
