package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	contextUserID   = "user_id"
	contextUsername = "username"

	msgBadCredentials     = "Incorrect username or password"
	msgInvalidCredentials = "Could not validate credentials"
)

var errInvalidToken = errors.New("invalid token")

// Authenticator issues and checks bearer tokens for users of a Store.
type Authenticator struct {
	BaseHandler
	store  *Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthenticator(store *Store, secret string, ttl time.Duration, logger utils.Logger) *Authenticator {
	return &Authenticator{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
	}
}

// Register adds a user with a bcrypt-hashed password.
func (a *Authenticator) Register(username, password string) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return a.store.AddUser(username, hash), nil
}

// IssueToken signs an HS256 token whose subject is the username.
func (a *Authenticator) IssueToken(username string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken returns the subject of a valid, unexpired token.
func (a *Authenticator) ParseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	if claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// Login handles the OAuth2 password form.
// @Summary Log in
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} models.Token
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /auth/token [post]
func (a *Authenticator) Login(c *gin.Context) {
	a.LogRequest(c, "Logging in")

	username := c.PostForm("username")
	password := c.PostForm("password")

	var missing []apperrors.DetailItem
	if username == "" {
		missing = append(missing, apperrors.DetailItem{Loc: []interface{}{"body", "username"}, Msg: "Field required", Type: "missing"})
	}
	if password == "" {
		missing = append(missing, apperrors.DetailItem{Loc: []interface{}{"body", "password"}, Msg: "Field required", Type: "missing"})
	}
	if len(missing) > 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: missing})
		return
	}

	u, ok := a.store.userByName(username)
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		abortDetail(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	token, err := a.IssueToken(u.Username)
	if err != nil {
		a.LogError(c, err, "Failed to issue token", "username", username)
		abortDetail(c, http.StatusInternalServerError, "Could not issue token")
		return
	}

	c.JSON(http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's id in the context.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			a.reject(c)
			return
		}

		username, err := a.ParseToken(raw)
		if err != nil {
			a.reject(c)
			return
		}
		u, ok := a.store.userByName(username)
		if !ok {
			a.reject(c)
			return
		}

		c.Set(contextUserID, u.ID)
		c.Set(contextUsername, u.Username)
		c.Next()
	}
}

func (a *Authenticator) reject(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	abortDetail(c, http.StatusUnauthorized, msgInvalidCredentials)
}
