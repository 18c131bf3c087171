package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access token payload'ı.
//
// JWT üç parçadan oluşur: header.payload.signature. Payload'da kullanıcı
// ID'si ve kullanıcı adı taşınır — kullanıcı adı WebSocket ve LiveKit
// viewer-token tarafında tekrar DB'ye gitmeden kullanılır. Middleware yine
// de kullanıcı kaydını her istekte DB'den tazeler: silinen veya kısıtlanan
// bir kullanıcının elindeki token işe yaramaz.
//
// Struct models paketinde tanımlıdır: services, ws ve middleware birlikte
// kullanır, her katman models'e bağımlı olabildiği için circular
// dependency oluşmaz.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
