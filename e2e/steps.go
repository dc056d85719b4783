//go:build e2e

package e2e

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^carpeta is running$`, tc.carpetaIsRunning)
	ctx.Step(`^a new citizen$`, tc.aNewCitizen)
	ctx.Step(`^a citizen whose registry calls fail$`, tc.aFailingCitizen)

	// Registration steps
	ctx.Step(`^I validate the citizen$`, tc.validateCitizen)
	ctx.Step(`^I register the citizen as "([^"]*)"$`, tc.registerCitizen)
	ctx.Step(`^I deregister the citizen$`, tc.deregisterCitizen)
	ctx.Step(`^I fetch the registration$`, tc.fetchRegistration)
	ctx.Step(`^I list registrations of my operator$`, tc.listByOperator)
	ctx.Step(`^I fetch the audit history$`, tc.fetchAuditHistory)

	// Document steps
	ctx.Step(`^the citizen's folder exists$`, tc.folderExists)
	ctx.Step(`^I upload "([^"]*)" with content "([^"]*)"$`, tc.uploadDocument)
	ctx.Step(`^I request a download URL for the document$`, tc.requestDownloadURL)
	ctx.Step(`^downloading the URL returns the uploaded content$`, tc.downloadMatches)
	ctx.Step(`^I list documents with page size (\d+)$`, tc.listDocuments)
	ctx.Step(`^I request authentication of the document$`, tc.requestAuthentication)
	ctx.Step(`^I fetch the folder access history$`, tc.fetchAccessHistory)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response should contain the citizen$`, tc.responseShouldContainCitizen)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should be true$`, tc.responseFieldShouldBeTrue)
	ctx.Step(`^the uploaded document hash should match its content$`, tc.hashMatches)
}

func (tc *TestContext) carpetaIsRunning(context.Context) error {
	if err := tc.GET("/health/live"); err != nil {
		return err
	}
	return tc.responseStatusShouldBe(context.Background(), 200)
}

func (tc *TestContext) aNewCitizen(context.Context) error {
	tc.CitizenID = fmt.Sprintf("3%09d", rand.IntN(1_000_000_000))
	return nil
}

// Citizens with the 9999 prefix make the mock registry answer 503.
func (tc *TestContext) aFailingCitizen(context.Context) error {
	tc.CitizenID = fmt.Sprintf("9999%06d", rand.IntN(1_000_000))
	return nil
}

func (tc *TestContext) validateCitizen(context.Context) error {
	return tc.GET("/api/v1/citizens/" + tc.CitizenID + "/validate")
}

func (tc *TestContext) registerCitizen(_ context.Context, name string) error {
	if err := tc.POST("/api/v1/citizens", map[string]string{
		"id":           tc.CitizenID,
		"name":         name,
		"address":      "Calle 10 # 5-20, Bogota",
		"operatorId":   tc.OperatorID,
		"operatorName": "Operador E2E",
	}); err != nil {
		return err
	}
	if folderID, err := tc.GetResponseString("folderId"); err == nil {
		tc.FolderID = folderID
	}
	return nil
}

func (tc *TestContext) deregisterCitizen(context.Context) error {
	return tc.DELETE("/api/v1/citizens", map[string]string{
		"id":         tc.CitizenID,
		"operatorId": tc.OperatorID,
		"reason":     "traslado de operador",
	})
}

func (tc *TestContext) fetchRegistration(context.Context) error {
	return tc.GET("/api/v1/citizens/" + tc.CitizenID)
}

func (tc *TestContext) listByOperator(context.Context) error {
	return tc.GET("/api/v1/citizens?operatorId=" + tc.OperatorID)
}

func (tc *TestContext) fetchAuditHistory(context.Context) error {
	return tc.GET("/api/v1/citizens/" + tc.CitizenID + "/audit")
}

func (tc *TestContext) folderExists(ctx context.Context) error {
	if err := tc.GET("/api/v1/carpetas/cedula/" + tc.CitizenID); err != nil {
		return err
	}
	if err := tc.responseStatusShouldBe(ctx, 200); err != nil {
		return err
	}
	folderID, err := tc.GetResponseString("data.carpetaId")
	if err != nil {
		return err
	}
	tc.FolderID = folderID
	return nil
}

func (tc *TestContext) uploadDocument(_ context.Context, title, content string) error {
	tc.UploadedBody = []byte(content)
	if err := tc.Upload("/api/v1/carpetas/"+tc.FolderID+"/documentos", map[string]string{
		"titulo":            title,
		"tipoDocumento":     "CERTIFICADO",
		"contextoDocumento": "ACADEMICO",
	}, strings.ReplaceAll(strings.ToLower(title), " ", "-")+".txt", tc.UploadedBody); err != nil {
		return err
	}
	if documentID, err := tc.GetResponseString("data.documentId"); err == nil {
		tc.DocumentID = documentID
	}
	return nil
}

func (tc *TestContext) hashMatches(context.Context) error {
	got, err := tc.GetResponseString("data.sha256")
	if err != nil {
		return err
	}
	sum := sha256.Sum256(tc.UploadedBody)
	if want := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("expected hash %s, got %s", want, got)
	}
	return nil
}

func (tc *TestContext) requestDownloadURL(context.Context) error {
	if err := tc.GET("/api/v1/carpetas/" + tc.FolderID + "/documentos/" + tc.DocumentID + "/descargar"); err != nil {
		return err
	}
	url, err := tc.GetResponseString("data.url")
	if err != nil {
		return err
	}
	tc.DownloadURL = url
	return nil
}

func (tc *TestContext) downloadMatches(ctx context.Context) error {
	if err := tc.getURL(tc.DownloadURL); err != nil {
		return err
	}
	if err := tc.responseStatusShouldBe(ctx, 200); err != nil {
		return err
	}
	if string(tc.LastResponseBody) != string(tc.UploadedBody) {
		return fmt.Errorf("downloaded content differs from upload")
	}
	return nil
}

func (tc *TestContext) listDocuments(_ context.Context, pageSize int) error {
	return tc.GET(fmt.Sprintf("/api/v1/carpetas/%s/documentos?pageSize=%d", tc.FolderID, pageSize))
}

func (tc *TestContext) requestAuthentication(context.Context) error {
	return tc.POST("/api/v1/carpetas/"+tc.FolderID+"/documentos/"+tc.DocumentID+"/autenticar", map[string]string{})
}

func (tc *TestContext) fetchAccessHistory(context.Context) error {
	return tc.GET("/api/v1/carpetas/" + tc.FolderID + "/historial")
}

func (tc *TestContext) responseStatusShouldBe(_ context.Context, expected int) error {
	if got := tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseShouldContain(_ context.Context, text string) error {
	if !strings.Contains(string(tc.LastResponseBody), text) {
		return fmt.Errorf("response does not contain %q: %s", text, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseShouldContainCitizen(ctx context.Context) error {
	return tc.responseShouldContain(ctx, `"citizenId":"`+tc.CitizenID+`"`)
}

func (tc *TestContext) responseFieldShouldEqual(_ context.Context, field, expected string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(value); got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, got)
	}
	return nil
}

func (tc *TestContext) responseFieldShouldBeTrue(_ context.Context, field string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if b, ok := value.(bool); !ok || !b {
		return fmt.Errorf("expected %s to be true, got %v", field, value)
	}
	return nil
}
