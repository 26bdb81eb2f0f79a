package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/config"
	"github.com/aeroforge/aerobbs/models"
	"github.com/aeroforge/aerobbs/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, login, and user account endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a local account and returns a bearer token. When invite
// gating is enabled the request must carry an unused access key, which gets
// bound to the new account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username     string `json:"username" binding:"required,min=3,max=64"`
		Email        string `json:"email"`
		Password     string `json:"password" binding:"required,min=6"`
		Organization string `json:"organization"`
		InviteKey    string `json:"invite_key"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username cannot be empty")
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "username already exists")
		return
	}

	var invite *models.AccessKey
	if config.Get().RequireInviteKey {
		key := strings.TrimSpace(req.InviteKey)
		if key == "" {
			utils.Error(ctx, http.StatusForbidden, 40310, "invite key required")
			return
		}
		invite = &models.AccessKey{}
		if err := a.db.Where("`key` = ? AND used = ?", key, false).First(invite).Error; err != nil {
			utils.Error(ctx, http.StatusForbidden, 40311, "invalid or used invite key")
			return
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Organization: strings.TrimSpace(req.Organization),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// the violated index is either username or email
			var taken int64
			a.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&taken)
			if taken > 0 {
				utils.Error(ctx, http.StatusBadRequest, 40003, "username already exists")
			} else {
				utils.Error(ctx, http.StatusBadRequest, 40006, "email already registered")
			}
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	if invite != nil {
		invite.UserID = &user.ID
		invite.Used = true
		if err := a.db.Save(invite).Error; err != nil {
			utils.Sugar.Warnf("failed to mark invite key %d used: %v", invite.ID, err)
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": publicUser(user)})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": publicUser(user)})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	parts := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}
	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, publicUser(user))
}

// ListUsers returns a page of users.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	skip, limit := parsePageArgs(ctx)
	var users []models.User
	if err := a.db.Order("id ASC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to list users")
		return
	}
	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, publicUser(u))
	}
	utils.Success(ctx, gin.H{"items": items})
}

// GetUser returns one user's public profile.
func (a *AuthController) GetUser(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid user id")
		return
	}
	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to get user")
		return
	}
	utils.Success(ctx, publicUser(user))
}

// DeleteUser removes an account. Admins may delete anyone; everyone else
// only themselves.
func (a *AuthController) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid user id")
		return
	}
	actorID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	if actorID != id && getRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if err := a.db.Delete(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to delete user")
		return
	}
	utils.Success(ctx, gin.H{"message": "user deleted"})
}

// MintAccessKey creates a fresh, unused invitation key. Admin only.
func (a *AuthController) MintAccessKey(ctx *gin.Context) {
	if getRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40312, "admin only")
		return
	}
	key := models.AccessKey{Key: uuid.NewString()}
	if err := a.db.Create(&key).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to create access key")
		return
	}
	utils.Success(ctx, gin.H{"key": key.Key})
}

func publicUser(user models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"organization": user.Organization,
		"role":         user.Role,
		"created_at":   user.CreatedAt,
	}
}
