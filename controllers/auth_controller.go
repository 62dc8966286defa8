package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/forms"
	"github.com/sldmxm/yatube-final/middleware"
	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/repositories"
	"github.com/sldmxm/yatube-final/utils"
)

const tokenDuration = 7 * 24 * time.Hour

// AuthController handles local account signup, login, and logout. Sessions
// are JWTs carried in a cookie for browser flows and accepted as a bearer
// token for API clients.
type AuthController struct {
	users     *repositories.UserRepository
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{
		users:     repositories.NewUserRepository(db),
		blacklist: blacklist,
	}
}

// Signup registers a local account with a bcrypt hashed password and signs
// the new user in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var form forms.SignupForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	cleaned, errs := form.Validate()
	if len(errs) > 0 {
		utils.FieldErrors(ctx, errs, gin.H{"username": cleaned.Username, "email": cleaned.Email})
		return
	}

	if existing, err := a.users.FindByUsername(cleaned.Username); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check username")
		return
	} else if existing != nil {
		utils.FieldErrors(ctx, forms.FieldErrors{"username": "username already taken"},
			gin.H{"username": cleaned.Username, "email": cleaned.Email})
		return
	}

	hash, err := utils.HashPassword(cleaned.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     cleaned.Username,
		Email:        cleaned.Email,
		PasswordHash: hash,
	}
	if err := a.users.Create(&user); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	a.issueSession(ctx, user)
}

// SignupPage returns the blank registration form context.
func (a *AuthController) SignupPage(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"form": gin.H{"username": "", "email": "", "password": "", "confirm": ""},
	})
}

// LoginPage returns the login form context, echoing the next parameter so
// the client can send the user back where they came from.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"form": gin.H{"username": "", "password": ""},
		"next": ctx.Query("next"),
	})
}

// Login verifies credentials and starts a session. When the request carries
// a next value the response is a redirect there instead of a JSON payload.
func (a *AuthController) Login(ctx *gin.Context) {
	var form forms.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	cleaned, errs := form.Validate()
	if len(errs) > 0 {
		utils.FieldErrors(ctx, errs, gin.H{"username": cleaned.Username})
		return
	}

	user, err := a.users.FindByUsername(cleaned.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load user")
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, cleaned.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	next := ctx.Query("next")
	if next == "" {
		next = ctx.PostForm("next")
	}
	if next != "" {
		token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to issue token")
			return
		}
		setAuthCookie(ctx, token)
		ctx.Redirect(http.StatusFound, next)
		return
	}

	a.issueSession(ctx, *user)
}

// Logout revokes the current token until its natural expiry and clears the
// session cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if value, exists := ctx.Get(middleware.ContextTokenKey); exists {
		if token, _ := value.(string); token != "" {
			if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
				a.blacklist.Revoke(token, claims.ExpiresAt.Time)
			}
		}
	}
	ctx.SetCookie(utils.AuthCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated caller's account.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "unauthorized")
		return
	}
	user, err := a.users.FindByID(userID)
	if err != nil || user == nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to load user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func (a *AuthController) issueSession(ctx *gin.Context, user models.User) {
	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to issue token")
		return
	}
	setAuthCookie(ctx, token)
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  publicUser(user),
	})
}

func setAuthCookie(ctx *gin.Context, token string) {
	ctx.SetCookie(utils.AuthCookieName, token, int(tokenDuration/time.Second), "/", "", false, true)
}
