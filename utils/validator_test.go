package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"student@kgpian.iitkgp.ac.in", "a.b+c@example.org"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "plainaddress", "missing@tld", "@example.org"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestValidateRollNo(t *testing.T) {
	valid := []string{"22XX9999", "21CS1001", " 21EE30005 "}
	for _, r := range valid {
		if !ValidateRollNo(r) {
			t.Fatalf("expected %q to be valid", r)
		}
	}

	invalid := []string{"", "CS21001", "2121001", "21CS", "21CSABCD"}
	for _, r := range invalid {
		if ValidateRollNo(r) {
			t.Fatalf("expected %q to be invalid", r)
		}
	}
}

func TestValidateDriveLink(t *testing.T) {
	if !ValidateDriveLink("https://drive.google.com/file/d/abc") {
		t.Fatal("https link should be accepted")
	}
	if ValidateDriveLink("ftp://drive.google.com/file") || ValidateDriveLink("not a link") {
		t.Fatal("non-http links should be rejected")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world "); got != "helloworld" {
		t.Fatalf("SanitizeInput = %q", got)
	}
}
