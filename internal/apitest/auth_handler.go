package apitest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message     string           `json:"message,omitempty"`
	AccessToken string           `json:"access_token"`
	User        *domain.Identity `json:"user"`
}

// register creates a patient, pharmacist or admin account and logs it in.
func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Missing required fields"})
	}
	if !domain.Role(req.Role).Valid() {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid role"})
	}

	s.store.mu.Lock()
	if s.store.accountByEmail(req.Email) != nil {
		s.store.mu.Unlock()
		return c.JSON(http.StatusConflict, messageResponse{Message: "Email already registered"})
	}
	a := s.store.addAccount(domain.Identity{
		ID:    s.store.id(),
		Email: strings.ToLower(req.Email),
		Name:  req.Name,
		Role:  domain.Role(req.Role),
		Phone: req.Phone,
	}, req.Password)
	identity := a.identity
	s.store.mu.Unlock()

	token, err := s.generateToken(identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{
		Message:     "User registered successfully",
		AccessToken: token,
		User:        &identity,
	})
}

// login authenticates an account and returns a JWT.
func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Email and password are required"})
	}

	s.store.mu.Lock()
	a := s.store.accountByEmail(req.Email)
	s.store.mu.Unlock()

	if a == nil || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid email or password"})
	}

	identity := a.identity
	token, err := s.generateToken(identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		Message:     "Login successful",
		AccessToken: token,
		User:        &identity,
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "PharmaLink API is running",
	})
}

func (s *Server) generateToken(identity domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(identity.ID, 10),
		"role": string(identity.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret())
}
