package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"inclusiveai/skill-assessment/internal/models"
	"inclusiveai/skill-assessment/internal/repositories"
	"inclusiveai/skill-assessment/internal/services"
)

type AuthHandler struct {
	userRepo    repositories.UserRepository
	authService services.AuthService
}

func NewAuthHandler(userRepo repositories.UserRepository, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		authService: authService,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and password are required",
		})
	}

	role := models.UserRole(req.Role)
	if role != models.RoleStudent && role != models.RoleHR {
		role = models.RoleStudent
	}

	hashed, err := h.authService.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid password",
		})
	}

	user := &models.User{
		Email:              req.Email,
		HashedPassword:     hashed,
		Role:               role,
		FullName:           req.FullName,
		Skills:             json.RawMessage("[]"),
		AccessibilityNeeds: json.RawMessage("[]"),
	}

	if err := h.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "email already registered",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create user",
		})
	}

	token, err := h.authService.IssueToken(user.Email, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}

	return c.JSON(models.LoginResponse{
		Success: true,
		Token:   token,
		Email:   user.Email,
		Role:    string(user.Role),
		Message: "Registration successful",
	})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.userRepo.FindByEmail(req.Email)
	if err != nil || !h.authService.VerifyPassword(user.HashedPassword, req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid credentials",
		})
	}

	token, err := h.authService.IssueToken(user.Email, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}

	return c.JSON(models.LoginResponse{
		Success: true,
		Token:   token,
		Email:   user.Email,
		Role:    string(user.Role),
		Message: "Welcome back, " + string(user.Role) + "!",
	})
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	identity := CurrentIdentity(c)

	user, err := h.userRepo.FindByEmail(identity.Email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	return c.JSON(user)
}

// HandleProfileUpdate handles PUT /auth/profile/update
func (h *AuthHandler) HandleProfileUpdate(c *fiber.Ctx) error {
	identity := CurrentIdentity(c)

	var req models.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Domain != nil {
		updates["domain"] = *req.Domain
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.Skills != nil {
		buf, err := json.Marshal(*req.Skills)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid skills payload",
			})
		}
		updates["skills"] = buf
	}
	if req.AccessibilityNeeds != nil {
		buf, err := json.Marshal(*req.AccessibilityNeeds)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid accessibility payload",
			})
		}
		updates["accessibility_needs"] = buf
	}

	if err := h.userRepo.UpdateProfile(identity.Email, updates); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update profile",
		})
	}

	user, err := h.userRepo.FindByEmail(identity.Email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	return c.JSON(user)
}
