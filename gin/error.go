package gin

import (
	"net/http"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail names the failure and tells the user what to do about it.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type remediation struct {
	status  int
	message string
}

var remediations = map[string]remediation{
	cleanplate.EINVALID:      {http.StatusBadRequest, "That does not look like a valid recipe URL. Check it and try again."},
	cleanplate.EUNSAFEURL:    {http.StatusBadRequest, "That address cannot be fetched. Use the public URL of a recipe page."},
	cleanplate.ENETWORK:      {http.StatusBadGateway, "The recipe site could not be reached. Check the URL or try again later."},
	cleanplate.ESSL:          {http.StatusBadGateway, "The recipe site's security certificate could not be verified."},
	cleanplate.EACCESSDENIED: {http.StatusForbidden, "The recipe site refused the request. Wait a few minutes and try again."},
	cleanplate.EHTTP:         {http.StatusBadGateway, "The recipe site returned an error. Check that the page still exists."},
	cleanplate.EBOTCHALLENGE: {http.StatusServiceUnavailable, "The site is showing a bot check. Try a print-friendly version of the recipe."},
	cleanplate.EJSREQUIRED:   {http.StatusUnprocessableEntity, "This page only shows its recipe with JavaScript. Try a print-friendly version of the recipe."},
	cleanplate.ENORECIPE:     {http.StatusUnprocessableEntity, "No recipe was found on this page. Make sure the link points at a single recipe."},
	cleanplate.ENOTFOUND:     {http.StatusNotFound, "Nothing was found for that request."},
}

var internalRemediation = remediation{http.StatusInternalServerError, "Something went wrong while reading the recipe. Please try again."}

// Remediation maps an error code to the HTTP status and user-facing message
// the API answers with. Unknown codes map to 500.
func Remediation(code string) (status int, message string) {
	r, ok := remediations[code]
	if !ok {
		r = internalRemediation
	}
	return r.status, r.message
}

// respondError writes the remediation for err. Internal error text is never
// sent to the client.
func respondError(c *gin.Context, err error) {
	code := cleanplate.ErrorCode(err)
	status, message := Remediation(code)
	if _, known := remediations[code]; !known {
		code = cleanplate.EINTERNAL
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Status: "error",
		Error:  ErrorDetail{Code: code, Message: message},
	})
}
