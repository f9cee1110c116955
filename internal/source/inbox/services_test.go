package inbox

import (
	"strings"
	"testing"
	"time"
)

func rawMessage(html string) []byte {
	return []byte("From: LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>\r\n" +
		"Subject: 5 new jobs for grc analyst\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		html)
}

func TestServiceFor(t *testing.T) {
	cases := []struct {
		from string
		want string
	}{
		{"LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>", "linkedin"},
		{"Indeed <alert@indeed.com>", "indeed"},
		{"Lensa <jobs@team.lensa.com>", "lensa"},
		{"Lensa <noreply@lensa.ai>", "lensa"},
		{"Random Newsletter <news@example.com>", ""},
	}
	for _, tc := range cases {
		svc := serviceFor(tc.from)
		got := ""
		if svc != nil {
			got = svc.Name
		}
		if got != tc.want {
			t.Fatalf("serviceFor(%q) = %q, want %q", tc.from, got, tc.want)
		}
	}
}

func TestParseLinkedInAlertMergesAnchorsPerJob(t *testing.T) {
	html := `
<html><body>
  <table>
    <tr><td>
      <a href="https://www.linkedin.com/jobs/view/4001?trk=logo"><img src="logo.png"/></a>
      <a href="https://www.linkedin.com/jobs/view/4001?trk=title">GRC Analyst</a>
      <p>Acme Federal · Washington, DC</p>
    </td></tr>
  </table>
  <table>
    <tr><td>
      <a href="https://www.linkedin.com/jobs/view/4002?trk=title">Senior ISSO</a>
      <p>Beta Systems · Remote</p>
    </td></tr>
  </table>
  <a href="https://www.linkedin.com/jobs/search?keywords=grc">See all jobs</a>
</body></html>`

	m := message{
		From: "jobalerts-noreply@linkedin.com",
		Date: time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC),
		Raw:  rawMessage(html),
	}

	got, err := parseLinkedInAlert(m)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 postings, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.ID != "linkedin-4001" {
		t.Fatalf("ID = %q", first.ID)
	}
	if first.Title != "GRC Analyst" {
		t.Fatalf("Title = %q, logo anchor must not win", first.Title)
	}
	if first.Company != "Acme Federal" || first.Location != "Washington, DC" {
		t.Fatalf("card text not split: company=%q location=%q", first.Company, first.Location)
	}
	if first.URL != "https://www.linkedin.com/jobs/view/4001" {
		t.Fatalf("URL = %q, tracking params must be stripped", first.URL)
	}
	if !first.PostedAt.Equal(m.Date) {
		t.Fatal("PostedAt not taken from the message date")
	}

	second := got[1]
	if second.ID != "linkedin-4002" || second.Title != "Senior ISSO" {
		t.Fatalf("second posting mangled: %+v", second)
	}
	if !second.Remote {
		t.Fatal("remote location not detected")
	}
}

func TestParseLinkedInAlertIgnoresNavigationLinks(t *testing.T) {
	html := `
<html><body>
  <a href="https://www.linkedin.com/jobs/search?keywords=grc">See all jobs</a>
  <a href="https://www.linkedin.com/settings">Unsubscribe</a>
</body></html>`

	m := message{From: "jobalerts-noreply@linkedin.com", Raw: rawMessage(html)}
	got, err := parseLinkedInAlert(m)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("navigation links produced postings: %+v", got)
	}
}

func TestParseIndeedAlert(t *testing.T) {
	html := `
<html><body>
  <table>
    <tr><td>
      <a href="https://www.indeed.com/viewjob?jk=abc123">Cyber Security Analyst</a>
      <span>Gamma Corp - Arlington, VA</span>
    </td></tr>
  </table>
  <a href="https://www.indeed.com/viewjob?jk=abc123">Apply now</a>
</body></html>`

	m := message{
		From: "Indeed <alert@indeed.com>",
		Date: time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC),
		Raw:  rawMessage(html),
	}

	got, err := parseIndeedAlert(m)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 posting, got %d: %+v", len(got), got)
	}

	p := got[0]
	if p.Title != "Cyber Security Analyst" {
		t.Fatalf("Title = %q", p.Title)
	}
	if p.Company != "Gamma Corp" || p.Location != "Arlington, VA" {
		t.Fatalf("card text not split: company=%q location=%q", p.Company, p.Location)
	}
	if !strings.HasPrefix(p.ID, "indeed-") {
		t.Fatalf("ID = %q", p.ID)
	}
}

func TestHTMLBodyPrefersHTMLPart(t *testing.T) {
	raw := []byte("From: a@linkedin.com\r\n" +
		"Content-Type: multipart/alternative; boundary=XYZ\r\n" +
		"\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"plain text version\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"<html><body><p>html =28decoded=29 version</p></body></html>\r\n" +
		"--XYZ--\r\n")

	body := htmlBody(raw)
	if !strings.Contains(body, "html (decoded) version") {
		t.Fatalf("html part not selected or not decoded: %q", body)
	}
}

func TestHTMLBodyFallsBackToPlain(t *testing.T) {
	raw := []byte("From: a@linkedin.com\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"just plain text")

	if body := htmlBody(raw); !strings.Contains(body, "just plain text") {
		t.Fatalf("plain fallback broken: %q", body)
	}
}
