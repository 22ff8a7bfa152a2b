package transcript

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// onePagePDF builds a single-page document whose text layer holds lines,
// one text-show operation per line.
func onePagePDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 14 TL 72 720 Td\n")
	for _, l := range lines {
		fmt.Fprintf(&content, "(%s ) Tj T*\n", l)
	}
	content.WriteString("ET")
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

var transcriptLines = []string{"Fall 2023", "CS 240 A- Data Structures", "MATH 135 85 Algebra", "ENGL 109 B+ Writing"}

func TestPDFText(t *testing.T) {
	text, err := PDFText(onePagePDF(transcriptLines...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "MATH 135 85") {
		t.Fatalf("unexpected text %q", text)
	}
	if got := Extract(text).Full(); !reflect.DeepEqual(got, []string{"CS240", "MATH135", "ENGL109"}) {
		t.Fatalf("unexpected courses %v from %q", got, text)
	}

	for _, doc := range [][]byte{nil, []byte("%PDF-1.4 binary"), []byte("plain text")} {
		if _, err := PDFText(doc); !errors.Is(err, ErrUnreadablePDF) {
			t.Fatalf("%q: expected ErrUnreadablePDF, got %v", doc, err)
		}
	}
}

func TestUploadPDF(t *testing.T) {
	rec := &stubRecommender{}
	app := makeAppWithTranscriptHandler(rec)

	doc := onePagePDF(transcriptLines...)
	body, ctype := multipartBody(t, "Transcript.PDF", doc)
	req := httptest.NewRequest("POST", "/upload-pdf", body)
	req.Header.Set("Content-Type", ctype)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	for _, want := range []string{
		`"filename":"Transcript.PDF"`,
		fmt.Sprintf(`"size":%d`, len(doc)),
		`"message":"PDF processed successfully"`,
		`"extracted_courses":["CS240","MATH135","ENGL109"]`,
		`"course_codes":["CS","MATH","ENGL"]`,
		`"course_numbers":["240","135","109"]`,
		`"total_courses_found":3`,
		`"total_recommendations":1`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %s in body: %s", want, string(b))
		}
	}
	if !reflect.DeepEqual(rec.got, []string{"CS240", "MATH135", "ENGL109"}) {
		t.Fatalf("recommender received %v", rec.got)
	}
}

func TestUploadPDF_Rejects(t *testing.T) {
	app := makeAppWithTranscriptHandler(&stubRecommender{})

	cases := []struct {
		name     string
		filename string
		content  []byte
		status   int
	}{
		{"not a pdf name", "transcript.txt", []byte(sampleTranscript), fiber.StatusUnsupportedMediaType},
		{"broken document", "transcript.pdf", []byte("%PDF-1.4 binary"), fiber.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		body, ctype := multipartBody(t, tc.filename, tc.content)
		req := httptest.NewRequest("POST", "/upload-pdf", body)
		req.Header.Set("Content-Type", ctype)
		res, _ := app.Test(req)
		if res.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, res.StatusCode)
		}
		b, _ := io.ReadAll(res.Body)
		if !strings.Contains(string(b), `"error"`) {
			t.Fatalf("%s: expected an error body, got %s", tc.name, string(b))
		}
	}

	req := httptest.NewRequest("POST", "/upload-pdf", strings.NewReader("no form"))
	req.Header.Set("Content-Type", "application/pdf")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without a file, got %d", res.StatusCode)
	}
}
