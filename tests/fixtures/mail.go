package fixtures

import (
	"bytes"
	"strings"
)

// ShiftJISGreeting is "こんにちは" encoded as Windows-31J. It is not valid UTF-8.
const ShiftJISGreeting = "\x82\xb1\x82\xf1\x82\xc9\x82\xbf\x82\xcd"

// ShiftJISCSV is a two-line CSV file encoded as Windows-31J
const ShiftJISCSV = "\x95i\x96\xbc,\x90\x94\x97\xca\n\x82\xe8\x82\xf1\x82\xb2,3\n"

// ShiftJISEmail declares shift_jis on an 8bit text body and on a base64
// CSV attachment whose payload is ShiftJISCSV
const ShiftJISEmail = "From: sender@example.jp\n" +
	"To: rcpt@example.com\n" +
	"Subject: sjis\n" +
	"Message-ID: <sjis-1@example.jp>\n" +
	"Date: Tue, 02 Jan 2024 09:00:00 +0900\n" +
	"MIME-Version: 1.0\n" +
	"Content-Type: multipart/mixed; boundary=\"sjis\"\n" +
	"\n" +
	"--sjis\n" +
	"Content-Type: text/plain; charset=shift_jis\n" +
	"Content-Transfer-Encoding: 8bit\n" +
	"\n" +
	ShiftJISGreeting + "\n" +
	"--sjis\n" +
	"Content-Type: text/csv; charset=shift_jis\n" +
	"Content-Disposition: attachment; filename=\"a.csv\"\n" +
	"Content-Transfer-Encoding: base64\n" +
	"\n" +
	"lWmWvCyQlJfKCoLogvGCsiwzCg==\n" +
	"--sjis--\n"

// SimpleTextEmail is a single-part text/plain message
const SimpleTextEmail = `From: Alice Sender <Alice@Example.com>
To: bob@example.com, "Bob Again" <BOB@example.com>, carol@example.com
Cc: dave@example.com
Subject: Simple text
Date: Mon, 01 Jan 2024 10:00:00 +0900
Message-ID: <simple-1@example.com>
In-Reply-To: <parent@example.com>
References: <root@example.com> <parent@example.com>
Content-Type: text/plain; charset=utf-8

Hello Bob,
plain body.
`

// AlternativeEmail is multipart/alternative with text and html bodies
const AlternativeEmail = `From: sender@example.com
To: rcpt@example.com
Subject: Alternative
Date: Tue, 02 Jan 2024 10:00:00 +0000
Message-ID: <alt-1@example.com>
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="ALT"

--ALT
Content-Type: text/plain; charset=utf-8

plain version
--ALT
Content-Type: text/html; charset=utf-8

<p>html version</p><script>alert(1)</script>
--ALT--
`

// RelatedEmail nests an html body with an inline cid image inside
// multipart/mixed together with a pdf attachment
const RelatedEmail = `From: sender@example.com
To: rcpt@example.com
Subject: Related
Date: Wed, 03 Jan 2024 10:00:00 +0000
Message-ID: <related-1@example.com>
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="MIX"

--MIX
Content-Type: multipart/related; boundary="REL"

--REL
Content-Type: text/html; charset=utf-8

<p>logo:</p><img src="cid:LOGO123">
--REL
Content-Type: image/png
Content-ID: <logo123>
Content-Disposition: inline
Content-Transfer-Encoding: base64

iVBORw0KGgpmYWtlaW1hZ2U=
--REL--
--MIX
Content-Type: application/pdf; name="report.pdf"
Content-Disposition: attachment; filename="report.pdf"
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--MIX--
`

// EncodedHeadersEmail carries RFC 2047 encoded subject and display name
const EncodedHeadersEmail = `From: =?UTF-8?B?5pel5pys6Kqe44Gu5Lu25ZCN?= <jp@example.com>
To: rcpt@example.com
Subject: =?UTF-8?B?5pel5pys6Kqe44Gu5Lu25ZCN?=
Date: Thu, 04 Jan 2024 10:00:00 +0000
Message-ID: <encoded-1@example.com>
Content-Type: text/plain; charset=utf-8

body
`

// NoDateNoSubjectEmail has neither Date nor Subject
const NoDateNoSubjectEmail = `From: sender@example.com
To: rcpt@example.com
Message-ID: <nodate-1@example.com>
Content-Type: text/plain

body
`

// BadDateEmail has an unparseable Date header
const BadDateEmail = `From: sender@example.com
To: rcpt@example.com
Subject: Bad date
Date: not a date at all
Message-ID: <baddate-1@example.com>
Content-Type: text/plain

body
`

// NoMessageIDEmail has no Message-ID header
const NoMessageIDEmail = `From: sender@example.com
To: rcpt@example.com
Subject: No id
Date: Fri, 05 Jan 2024 10:00:00 +0000
Content-Type: text/plain

body
`

// WithHeader returns raw with an extra header prepended
func WithHeader(raw, name, value string) string {
	return name + ": " + value + "\n" + raw
}

// WithMessageID returns raw with its Message-ID header replaced
func WithMessageID(raw, id string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Message-ID:") {
			lines[i] = "Message-ID: " + id
			return strings.Join(lines, "\n")
		}
		if line == "" {
			break
		}
	}
	return WithHeader(raw, "Message-ID", id)
}

// Mbox joins raw messages into an mboxrd file
func Mbox(messages ...string) []byte {
	var buf bytes.Buffer
	for _, msg := range messages {
		buf.WriteString("From MAILER-DAEMON Mon Jan  1 00:00:00 2024\n")
		for _, line := range strings.SplitAfter(msg, "\n") {
			if strings.HasPrefix(strings.TrimLeft(line, ">"), "From ") {
				buf.WriteByte('>')
			}
			buf.WriteString(line)
		}
		if !strings.HasSuffix(msg, "\n") {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
