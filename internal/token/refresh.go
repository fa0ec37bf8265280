package token

// Exchange renueva access tokens a partir de refresh tokens.
type Exchange struct {
	issuer   *Issuer
	verifier *Verifier
}

func NewExchange(issuer *Issuer, verifier *Verifier) *Exchange {
	return &Exchange{issuer: issuer, verifier: verifier}
}

// RefreshAccessToken verifica el refresh token y, si es válido Y tiene
// scope=refresh_token (un access token válido acá se rechaza igual), emite
// un access token nuevo que lleva solo el sub del refresh.
//
// OJO: el rol NO se propaga al access token nuevo; el token resultante no
// pasa el chequeo de claims del gate hasta un login completo. Comportamiento
// heredado y pineado por test (ver DESIGN.md).
func (e *Exchange) RefreshAccessToken(refreshToken string) (string, bool) {
	cs, ok := e.verifier.Verify(refreshToken)
	if !ok || !cs.IsRefresh() {
		return "", false
	}
	access, err := e.issuer.IssueAccessToken(Identity{Email: cs.Sub}, 0)
	if err != nil {
		return "", false
	}
	return access, true
}
