// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// errors.New() ile sabit error değişkenleri tanımlarız.
// Böylece error karşılaştırması string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Service katmanı bunları döner, handler katmanı HTTP status code'larına map'ler.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)
