package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jpk1234556/machacoshostels/services"
)

// SupabaseAuthMiddleware validates session tokens and guarantees every
// authenticated caller has a profile row before any handler runs.
type SupabaseAuthMiddleware struct {
	SupabaseAuth   *services.SupabaseAuthService
	ProfileService *services.ProfileService
}

func NewSupabaseAuthMiddleware(profileService *services.ProfileService) *SupabaseAuthMiddleware {
	supabaseURL := os.Getenv("SUPABASE_URL")
	jwtSecret := os.Getenv("SUPABASE_JWT_SECRET") // Legacy: only needed for HS256

	if supabaseURL == "" {
		log.Fatal("Missing SUPABASE_URL configuration")
	}

	return &SupabaseAuthMiddleware{
		SupabaseAuth:   services.NewSupabaseAuthService(supabaseURL, jwtSecret),
		ProfileService: profileService,
	}
}

// RequireAuth validates the bearer token and provisions the profile on the
// caller's first authenticated request.
func (m *SupabaseAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		token, err := m.SupabaseAuth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		claims, err := m.SupabaseAuth.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			c.Abort()
			return
		}

		profile, err := m.ProfileService.EnsureProfile(c.Request.Context(), claims.UserID, claims.Email, extractNameFromClaims(claims))
		if err != nil {
			log.Printf("Failed to provision profile for %s: %v", claims.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("approval_status", string(profile.ApprovalStatus))

		log.Printf("AUTH SUCCESS - User: %s (%s)", claims.Email, claims.UserID)

		c.Next()
	}
}

// extractNameFromClaims pulls a display name out of Supabase metadata,
// falling back to a title-cased email local part.
func extractNameFromClaims(claims *services.SupabaseClaims) string {
	if claims.UserMeta != nil {
		if fullName, ok := claims.UserMeta["full_name"].(string); ok && fullName != "" {
			return fullName
		}
		if name, ok := claims.UserMeta["name"].(string); ok && name != "" {
			return name
		}
	}
	if claims.AppMeta != nil {
		if fullName, ok := claims.AppMeta["full_name"].(string); ok && fullName != "" {
			return fullName
		}
	}

	if strings.Contains(claims.Email, "@") {
		local := strings.Split(claims.Email, "@")[0]
		local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
		return cases.Title(language.English).String(local)
	}
	return "Owner"
}
