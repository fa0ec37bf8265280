package token

import (
	"github.com/Jawadabbaskhan/socialauth/internal/config"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
)

// Verifier valida tokens bajo el secreto y el algoritmo primario
// configurados. En su borde público colapsa toda falla (firma inválida,
// vencido, malformado) en una señal de ausencia uniforme: los callers no
// distinguen el motivo. El motivo concreto se loggea a nivel debug.
type Verifier struct {
	secret string
	alg    string
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{
		secret: cfg.JWT.Secret,
		alg:    cfg.JWT.Algorithm,
	}
}

// Verify intenta decodificar el token. Retorna (claims, true) si la firma
// matchea bajo el algoritmo primario y el exp sigue en el futuro;
// (zero, false) ante cualquier falla.
func (v *Verifier) Verify(tokenString string) (ClaimSet, bool) {
	cs, err := Decode(tokenString, v.secret, []string{v.alg})
	if err != nil {
		logger.Named("token").Debug("verify rejected", logger.Err(err))
		return ClaimSet{}, false
	}
	return cs, true
}
