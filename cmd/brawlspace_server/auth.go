package main

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/brawlspace/brawlspace/internal/model"
)

const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token   string            `json:"token"`
	Brawler *model.BrawlerDTO `json:"brawler"`
}

// getJWTAuth validates a Bearer token and stores the authenticated brawler id
// in the request locals. Websocket upgrades also pass through here because
// fiber runs it before the upgrade handler.
func getJWTAuth(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization))

		if !ok {
			// browsers cannot set headers on websocket dials
			token = ctx.Query("token")
		}

		if token == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}

		id, username, err := parseToken(token, app.config.jwtSecret)
		if err != nil {
			app.logger.Debug("token rejected", slog.Any("error", err))

			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		ctx.Locals(UserIDKey, id)
		ctx.Locals(UsernameKey, username)

		return ctx.Next()
	}
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)

	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return parts[1], true
}

func parseToken(token, secret string) (uint, string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := new(jwt.RegisteredClaims)

	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return 0, "", err
	}

	if !parsed.Valid || claims.Subject == "" {
		return 0, "", errors.New("invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, "", err
	}

	return uint(id), claims.ID, nil
}

func makeToken(b *model.Brawler, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(b.ID), 10),
		ID:        b.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(UserIDKey).(uint); ok {
		return id
	}

	return 0
}

func Username(c *fiber.Ctx) string {
	if u, ok := c.Locals(UsernameKey).(string); ok {
		return u
	}

	return ""
}

func getRegisterHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := new(RegisterRequest)

		if err := ctx.BodyParser(req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		req.Username = strings.TrimSpace(req.Username)

		if len(req.Username) < 3 || len(req.Password) < 6 {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "username must be 3+ chars, password 6+"})
		}

		if app.dbm.BrawlerQuery().Username(req.Username).One() != nil {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username taken"})
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		displayName := strings.TrimSpace(req.DisplayName)
		if displayName == "" {
			displayName = req.Username
		}

		b := &model.Brawler{
			Username:    req.Username,
			Password:    string(hash),
			DisplayName: displayName,
			AvatarURL:   req.AvatarURL,
			CreatedAt:   time.Now(),
		}

		if err := app.dbm.Create(b); err != nil {
			return err
		}

		token, err := makeToken(b, app.config.jwtSecret, app.config.jwtTTL)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).
			JSON(&TokenResponse{Token: token, Brawler: model.ToBrawlerDTO(b)})
	}
}

func getLoginHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := new(LoginRequest)

		if err := ctx.BodyParser(req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		b := app.dbm.BrawlerQuery().Username(strings.TrimSpace(req.Username)).One()

		if b == nil || bcrypt.CompareHashAndPassword([]byte(b.Password), []byte(req.Password)) != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		token, err := makeToken(b, app.config.jwtSecret, app.config.jwtTTL)
		if err != nil {
			return err
		}

		return ctx.JSON(&TokenResponse{Token: token, Brawler: model.ToBrawlerDTO(b)})
	}
}

func getProfileHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		b := app.dbm.BrawlerQuery().Id(UserID(ctx)).One()

		if b == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(model.ToBrawlerDTO(b))
	}
}

func getBrawlerHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		q := app.dbm.BrawlerQuery()

		if id, err := ctx.ParamsInt("id"); err == nil && id > 0 {
			q = q.Id(uint(id))
		} else {
			q = q.Username(ctx.Params("id"))
		}

		b := q.One()

		if b == nil {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.JSON(model.ToBrawlerDTO(b))
	}
}
