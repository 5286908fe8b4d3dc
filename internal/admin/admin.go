package admin

import (
	"crypto/subtle"
	"net/http"

	"github.com/SergeyParamoshkin/santeplanete/internal/model"
)

// HeaderPassword carries the admin credential.
const HeaderPassword = "X-Admin-Password"

// Gate guards article writes with a shared admin password. An open gate
// lets every write through.
type Gate struct {
	password string
	open     bool
}

func NewGate(password string, open bool) *Gate {
	return &Gate{password: password, open: open}
}

// Authorize checks the credential from the X-Admin-Password header, falling
// back to bodyPassword. It returns *model.AuthError on absence or mismatch.
func (g *Gate) Authorize(r *http.Request, bodyPassword string) error {
	if g == nil || g.open {
		return nil
	}

	given := r.Header.Get(HeaderPassword)
	if given == "" {
		given = bodyPassword
	}
	if given == "" || g.password == "" {
		return &model.AuthError{Missing: given == ""}
	}

	if subtle.ConstantTimeCompare([]byte(given), []byte(g.password)) != 1 {
		return &model.AuthError{}
	}

	return nil
}
