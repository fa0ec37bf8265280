package token

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Errores internos del codec. El Verifier los colapsa en su borde público:
// los callers del Verifier nunca distinguen entre estos, pero quedan
// disponibles para logging.
var (
	ErrMalformed        = errors.New("token: malformed")
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrExpired          = errors.New("token: expired")
)

// Encode serializa un ClaimSet como JWT firmado con el secreto y algoritmo
// dados. Invariante de emisión: sub no vacío y exp en el futuro.
func Encode(cs ClaimSet, secret, alg string) (string, error) {
	if cs.Sub == "" {
		return "", fmt.Errorf("token: encode: sub vacío")
	}
	if !cs.Exp.After(time.Now()) {
		return "", fmt.Errorf("token: encode: exp en el pasado")
	}
	method := jwtv5.GetSigningMethod(alg)
	if method == nil {
		return "", fmt.Errorf("token: encode: algoritmo desconocido %q", alg)
	}
	tk := jwtv5.NewWithClaims(method, cs.toMapClaims())
	return tk.SignedString([]byte(secret))
}

// Decode valida firma y expiración y recupera el ClaimSet.
// Acepta el token solo si la firma matchea bajo alguno de los algoritmos
// permitidos Y el exp sigue en el futuro. Sin leeway: un token vencido se
// rechaza apenas pasa su exp.
func Decode(tokenString, secret string, algs []string) (ClaimSet, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		return []byte(secret), nil
	}
	tok, err := jwtv5.Parse(tokenString, keyfunc,
		jwtv5.WithValidMethods(algs),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwtv5.ErrTokenExpired):
			return ClaimSet{}, ErrExpired
		case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
			return ClaimSet{}, ErrInvalidSignature
		case errors.Is(err, jwtv5.ErrTokenMalformed):
			return ClaimSet{}, ErrMalformed
		default:
			// alg no permitido, claims ilegibles, etc.
			return ClaimSet{}, ErrMalformed
		}
	}
	if !tok.Valid {
		return ClaimSet{}, ErrInvalidSignature
	}
	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return ClaimSet{}, ErrMalformed
	}
	return claimSetFromMap(mc), nil
}
