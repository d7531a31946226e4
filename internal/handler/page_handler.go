package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/warung_api/internal/utils"
)

// Page answers a gated page route once the page gate lets it through. The
// dashboard front end is served separately; this reports which page and
// session the request resolved to.
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := gin.H{"page": name}
		if sess := currentSession(c); sess.StoreID != "" {
			data["storeId"] = sess.StoreID
			data["email"] = sess.Email
		}
		utils.Success(c, http.StatusOK, "OK", data)
	}
}
