package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/profile"
)

// Login roles
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	PRN       string `json:"prn,omitempty"`
	IsStudent bool   `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsFaculty bool   `json:"is_faculty,omitempty"` // -> FACULTY PORTAL
}

type LoginRequest struct {
	Role  string `json:"role" validate:"required,oneof=student faculty"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	PRN   string `json:"prn"`
}

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Role = core.CleanString(r.Role, true /* lower */)
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.Name = core.CleanString(r.Name)
	r.PRN = core.CleanString(r.PRN)
	if err := validate.Struct(r); err != nil {
		return err
	}
	switch r.Role {
	case RoleFaculty:
		if err := validate.Var(r.Email, "facultyemail"); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "email", Error: "not an institutional faculty address"})
		}
	case RoleStudent:
		if err := validate.Var(r.PRN, "required,prn"); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "prn", Error: "PRN must be 8 digits"})
		}
	}
	return nil
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type authApi struct {
	deps *Deps
}

func registerAuthAPI(g *echo.Group, deps *Deps) {
	api := authApi{deps: deps}
	g.POST("/auth/login", api.login)
}

// login validates the role-specific identity rules and issues a session
// token. It does not require a pre-existing profile; when one exists for the
// email it is returned as the user object.
func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errAuthenticationFailed
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	token, err := GenerateToken(getLoginClaims(data, api.deps.Conf), api.deps.Conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	reqCtx := ctx.Request().Context()
	var user interface{}
	switch data.Role {
	case RoleStudent:
		if st, err := api.deps.ProfileSvc.GetStudent(reqCtx, profile.GetFilter{Email: data.Email}); err == nil {
			user = st
		}
	case RoleFaculty:
		if fac, err := api.deps.ProfileSvc.GetFaculty(reqCtx, profile.GetFilter{Email: data.Email}); err == nil {
			user = fac
		}
	}
	if user == nil {
		user = echo.Map{"role": data.Role, "name": data.Name, "email": data.Email, "prn": data.PRN}
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func getLoginClaims(data LoginRequest, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   data.Email,
			Audience:  "EduForum",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      data.Name,
		Email:     data.Email,
		PRN:       data.PRN,
		IsStudent: data.Role == RoleStudent,
		IsFaculty: data.Role == RoleFaculty,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}
