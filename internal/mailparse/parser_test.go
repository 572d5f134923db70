package mailparse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/tests/fixtures"
)

func parse(t *testing.T, raw string) *models.MessageData {
	t.Helper()
	data, ok := ParseRecord([]byte(raw), "Thunderbird", "Inbox", nil)
	require.True(t, ok)
	return data
}

func partTypes(parts []models.MessagePartData) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.MediaType()
	}
	return out
}

// ==================== Header Tests ====================

func TestParseRecord_Headers(t *testing.T) {
	data := parse(t, fixtures.SimpleTextEmail)

	assert.Equal(t, "<simple-1@example.com>", data.RFC822MessageID)
	assert.Equal(t, "Simple text", data.Subject)
	assert.Equal(t, "thunderbird", data.Vendor)
	assert.Equal(t, "Inbox", data.Folder)
	require.NotNil(t, data.DateSent)
	assert.True(t, data.DateSent.Equal(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)))
	assert.True(t, data.DateReceived.Equal(*data.DateSent))
	require.NotNil(t, data.InReplyTo)
	assert.Equal(t, "<parent@example.com>", *data.InReplyTo)
	require.NotNil(t, data.ReferencesList)
	assert.Equal(t, "<root@example.com> <parent@example.com>", *data.ReferencesList)
	assert.False(t, data.IsRead)
}

func TestParseRecord_EncodedWords(t *testing.T) {
	data := parse(t, fixtures.EncodedHeadersEmail)

	assert.Equal(t, "日本語の件名", data.Subject)
	require.Len(t, data.From, 1)
	require.NotNil(t, data.From[0].DisplayName)
	assert.Equal(t, "日本語の件名", *data.From[0].DisplayName)
}

func TestParseRecord_UndecodableEncodedWord_FallsBackToRaw(t *testing.T) {
	raw := strings.Replace(fixtures.SimpleTextEmail, "Subject: Simple text", "Subject: =?x-unknown-charset?Q?abc?=", 1)

	data := parse(t, raw)

	assert.Equal(t, "=?x-unknown-charset?Q?abc?=", data.Subject)
}

func TestParseRecord_MessageIDIsTrimmedNotRewritten(t *testing.T) {
	data := parse(t, fixtures.WithMessageID(fixtures.SimpleTextEmail, "  <Mixed.Case@Example.com>  "))

	assert.Equal(t, "<Mixed.Case@Example.com>", data.RFC822MessageID)
}

func TestParseRecord_MissingDateAndSubject(t *testing.T) {
	before := time.Now()
	data := parse(t, fixtures.NoDateNoSubjectEmail)

	assert.Equal(t, NoSubject, data.Subject)
	assert.Nil(t, data.DateSent)
	assert.False(t, data.DateReceived.Before(before))
	assert.Nil(t, data.InReplyTo)
}

func TestParseRecord_UnparseableDate_UsesNow(t *testing.T) {
	before := time.Now()
	data := parse(t, fixtures.BadDateEmail)

	require.NotNil(t, data.DateSent)
	assert.False(t, data.DateSent.Before(before))
	assert.True(t, data.DateSent.Equal(data.DateReceived))
}

func TestParseRecord_MissingMessageID_IsSyntheticAndStable(t *testing.T) {
	first := parse(t, fixtures.NoMessageIDEmail)
	second := parse(t, fixtures.NoMessageIDEmail)

	assert.True(t, strings.HasPrefix(first.RFC822MessageID, "<"))
	assert.True(t, strings.HasSuffix(first.RFC822MessageID, "@mailarchive.local>"))
	assert.Equal(t, first.RFC822MessageID, second.RFC822MessageID)
}

func TestParseRecord_MalformedHeader_ReturnsFalse(t *testing.T) {
	data, ok := ParseRecord([]byte("this is not an email\n\nbody\n"), "thunderbird", "Inbox", nil)

	assert.False(t, ok)
	assert.Nil(t, data)
}

// ==================== Address Tests ====================

func TestParseRecord_AddressesNormalizedAndDeduped(t *testing.T) {
	data := parse(t, fixtures.SimpleTextEmail)

	require.Len(t, data.From, 1)
	assert.Equal(t, "alice@example.com", data.From[0].Email)
	require.NotNil(t, data.From[0].DisplayName)
	assert.Equal(t, "Alice Sender", *data.From[0].DisplayName)

	require.Len(t, data.To, 2)
	assert.Equal(t, "bob@example.com", data.To[0].Email)
	assert.Nil(t, data.To[0].DisplayName, "first occurrence wins")
	assert.Equal(t, "carol@example.com", data.To[1].Email)

	require.Len(t, data.Cc, 1)
	assert.Equal(t, "dave@example.com", data.Cc[0].Email)
	assert.Empty(t, data.Bcc)
}

func TestParseRecord_RepeatedHeaderOccurrencesAreMerged(t *testing.T) {
	raw := fixtures.WithHeader(fixtures.SimpleTextEmail, "To", "erin@example.com, bob@example.com")

	data := parse(t, raw)

	emails := make([]string, len(data.To))
	for i, a := range data.To {
		emails[i] = a.Email
	}
	assert.ElementsMatch(t, []string{"erin@example.com", "bob@example.com", "carol@example.com"}, emails)
}

func TestParseAddressList_MalformedListFallsBackPerElement(t *testing.T) {
	got := parseAddressList(`good@example.com, "broken <bad, other@example.com`, nil)

	var emails []string
	for _, a := range got {
		emails = append(emails, models.NormalizeEmail(a.Address))
	}
	assert.Contains(t, emails, "good@example.com")
	assert.Contains(t, emails, "other@example.com")
}

func TestParseAddresses_DropsValuesWithoutAt(t *testing.T) {
	raw := strings.Replace(fixtures.SimpleTextEmail, "Cc: dave@example.com", "Cc: undisclosed-recipients:;", 1)

	data := parse(t, raw)

	assert.Empty(t, data.Cc)
}

// ==================== MIME Tree Tests ====================

func TestParseRecord_SinglePart(t *testing.T) {
	data := parse(t, fixtures.SimpleTextEmail)

	require.Len(t, data.Parts, 1)
	p := data.Parts[0]
	assert.Equal(t, "text/plain", p.MediaType())
	assert.Equal(t, 0, p.PartOrder)
	assert.Nil(t, p.ParentPartOrder)
	assert.Contains(t, string(p.Content), "plain body.")
	require.NotNil(t, p.SizeBytes)
	assert.Equal(t, int64(len(p.Content)), *p.SizeBytes)
	assert.False(t, p.IsAttachment)
}

func TestParseRecord_Alternative(t *testing.T) {
	data := parse(t, fixtures.AlternativeEmail)

	assert.Equal(t, []string{"multipart/alternative", "text/plain", "text/html"}, partTypes(data.Parts))

	container := data.Parts[0]
	assert.Nil(t, container.ParentPartOrder)
	assert.Nil(t, container.Content)
	assert.False(t, container.IsAttachment)

	for _, p := range data.Parts[1:] {
		require.NotNil(t, p.ParentPartOrder)
		assert.Equal(t, 0, *p.ParentPartOrder)
	}
	assert.Contains(t, string(data.Parts[2].Content), "<p>html version</p>")
}

func TestParseRecord_NestedTreeWithAttachment(t *testing.T) {
	data := parse(t, fixtures.RelatedEmail)

	require.Equal(t, []string{
		"multipart/mixed",
		"multipart/related",
		"text/html",
		"image/png",
		"application/pdf",
	}, partTypes(data.Parts))

	parents := []*int{nil, fixtures.IntPtr(0), fixtures.IntPtr(1), fixtures.IntPtr(1), fixtures.IntPtr(0)}
	for i, p := range data.Parts {
		assert.Equal(t, i, p.PartOrder)
		assert.Equal(t, parents[i], p.ParentPartOrder, "part %d", i)
	}

	img := data.Parts[3]
	require.NotNil(t, img.ContentID)
	assert.Equal(t, "logo123", *img.ContentID)
	require.NotNil(t, img.ContentDisposition)
	assert.Equal(t, "inline", *img.ContentDisposition)
	assert.False(t, img.IsAttachment)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nfakeimage"), img.Content)

	pdf := data.Parts[4]
	assert.True(t, pdf.IsAttachment)
	require.NotNil(t, pdf.Filename)
	assert.Equal(t, "report.pdf", *pdf.Filename)
	assert.Equal(t, []byte("%PDF-1.4\n"), pdf.Content)
}

func TestParseRecord_DeclaredCharsetIsNotConverted(t *testing.T) {
	data := parse(t, fixtures.ShiftJISEmail)

	require.Len(t, data.Parts, 3)
	assert.Equal(t, fixtures.ShiftJISGreeting, strings.TrimRight(string(data.Parts[1].Content), "\r\n"))

	csv := data.Parts[2]
	assert.True(t, csv.IsAttachment)
	assert.Equal(t, []byte(fixtures.ShiftJISCSV), csv.Content)
	assert.Equal(t, int64(len(fixtures.ShiftJISCSV)), *csv.SizeBytes)
}

func TestTransferDecode(t *testing.T) {
	tests := []struct {
		name string
		cte  string
		in   string
		want string
	}{
		{"none", "", "plain\n", "plain\n"},
		{"8bit", "8bit", "\x82\xb1", "\x82\xb1"},
		{"base64 with line breaks", "base64", "aGVs\r\nbG8=\r\n", "hello"},
		{"quoted-printable", "quoted-printable", "caf=E9 soft=\r\nbreak", "caf\xe9 softbreak"},
		{"mixed case", "Base64", "aGk=", "hi"},
		{"unknown kept raw", "x-uuencode", "begin 644 a", "begin 644 a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transferDecode(tt.cte, []byte(tt.in))

			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestTransferDecode_CorruptBase64(t *testing.T) {
	_, err := transferDecode("base64", []byte("!!!not base64!!!"))

	assert.Error(t, err)
}

func TestParseRecord_PartOrderInvariant(t *testing.T) {
	for _, raw := range []string{
		fixtures.SimpleTextEmail,
		fixtures.AlternativeEmail,
		fixtures.RelatedEmail,
		fixtures.EncodedHeadersEmail,
	} {
		data := parse(t, raw)

		seen := map[int]bool{}
		for _, p := range data.Parts {
			assert.False(t, seen[p.PartOrder], "duplicate order %d", p.PartOrder)
			seen[p.PartOrder] = true
			if p.ParentPartOrder != nil {
				assert.Less(t, *p.ParentPartOrder, p.PartOrder)
			}
		}
	}
}

func TestSplitMediaType(t *testing.T) {
	tests := []struct {
		ct        string
		hasHeader bool
		wantType  string
		wantSub   string
	}{
		{"text/html", true, "text", "html"},
		{"IMAGE/PNG", true, "image", "png"},
		{"", false, "text", "plain"},
		{"", true, "application", "octet-stream"},
		{"weird", true, "weird", "octet-stream"},
		{"/x", true, "application", "x"},
	}
	for _, tt := range tests {
		mt, st := splitMediaType(tt.ct, tt.hasHeader)
		assert.Equal(t, tt.wantType, mt, tt.ct)
		assert.Equal(t, tt.wantSub, st, tt.ct)
	}
}
