package imap

// ResponseCode is the name of a response code.
type ResponseCode string

const (
	ResponseCodeAlert          ResponseCode = "ALERT"
	ResponseCodeBadCharset     ResponseCode = "BADCHARSET"
	ResponseCodeCapability     ResponseCode = "CAPABILITY"
	ResponseCodeParse          ResponseCode = "PARSE"
	ResponseCodePermanentFlags ResponseCode = "PERMANENTFLAGS"
	ResponseCodeReadOnly       ResponseCode = "READ-ONLY"
	ResponseCodeReadWrite      ResponseCode = "READ-WRITE"
	ResponseCodeTryCreate      ResponseCode = "TRYCREATE"
	ResponseCodeUIDNext        ResponseCode = "UIDNEXT"
	ResponseCodeUIDValidity    ResponseCode = "UIDVALIDITY"
	ResponseCodeUnseen         ResponseCode = "UNSEEN"

	// UIDPLUS
	ResponseCodeAppendUID    ResponseCode = "APPENDUID"
	ResponseCodeCopyUID      ResponseCode = "COPYUID"
	ResponseCodeUIDNotSticky ResponseCode = "UIDNOTSTICKY"

	// CONDSTORE, IMAP4rev2
	ResponseCodeClosed ResponseCode = "CLOSED"

	// Codes without arguments defined by IMAP4rev2 and extensions. These are
	// represented as CodeOther.
	ResponseCodeAlreadyExists        ResponseCode = "ALREADYEXISTS"
	ResponseCodeAuthenticationFailed ResponseCode = "AUTHENTICATIONFAILED"
	ResponseCodeAuthorizationFailed  ResponseCode = "AUTHORIZATIONFAILED"
	ResponseCodeCannot               ResponseCode = "CANNOT"
	ResponseCodeClientBug            ResponseCode = "CLIENTBUG"
	ResponseCodeContactAdmin         ResponseCode = "CONTACTADMIN"
	ResponseCodeCorruption           ResponseCode = "CORRUPTION"
	ResponseCodeExpired              ResponseCode = "EXPIRED"
	ResponseCodeHasChildren          ResponseCode = "HASCHILDREN"
	ResponseCodeInUse                ResponseCode = "INUSE"
	ResponseCodeLimit                ResponseCode = "LIMIT"
	ResponseCodeNonExistent          ResponseCode = "NONEXISTENT"
	ResponseCodeNoPerm               ResponseCode = "NOPERM"
	ResponseCodeOverQuota            ResponseCode = "OVERQUOTA"
	ResponseCodePrivacyRequired      ResponseCode = "PRIVACYREQUIRED"
	ResponseCodeServerBug            ResponseCode = "SERVERBUG"
	ResponseCodeUnavailable          ResponseCode = "UNAVAILABLE"
	ResponseCodeUnknownCTE           ResponseCode = "UNKNOWN-CTE"
)

// knownCodes lists the response codes with a dedicated Code type.
var knownCodes = map[ResponseCode]struct{}{
	ResponseCodeAlert:          {},
	ResponseCodeBadCharset:     {},
	ResponseCodeCapability:     {},
	ResponseCodeParse:          {},
	ResponseCodePermanentFlags: {},
	ResponseCodeReadOnly:       {},
	ResponseCodeReadWrite:      {},
	ResponseCodeTryCreate:      {},
	ResponseCodeUIDNext:        {},
	ResponseCodeUIDValidity:    {},
	ResponseCodeUnseen:         {},
	ResponseCodeAppendUID:      {},
	ResponseCodeCopyUID:        {},
	ResponseCodeUIDNotSticky:   {},
	ResponseCodeClosed:         {},
}

// IsKnown returns true if the code has a dedicated Code type. Names are
// case-insensitive.
func (code ResponseCode) IsKnown() bool {
	_, ok := knownCodes[ResponseCode(toUpperASCII(string(code)))]
	return ok
}

// Code is a response code, the bracketed part of a response text.
type Code interface {
	Name() ResponseCode
}

var (
	_ Code = CodeAlert{}
	_ Code = CodeBadCharset{}
	_ Code = CodeCapability{}
	_ Code = CodeParse{}
	_ Code = CodePermanentFlags{}
	_ Code = CodeReadOnly{}
	_ Code = CodeReadWrite{}
	_ Code = CodeTryCreate{}
	_ Code = CodeUIDNext{}
	_ Code = CodeUIDValidity{}
	_ Code = CodeUnseen{}
	_ Code = CodeAppendUID{}
	_ Code = CodeCopyUID{}
	_ Code = CodeUIDNotSticky{}
	_ Code = CodeClosed{}
	_ Code = CodeOther{}
)

type CodeAlert struct{}

func (CodeAlert) Name() ResponseCode { return ResponseCodeAlert }

// CodeBadCharset optionally lists the supported charsets.
type CodeBadCharset struct {
	Charsets []string
}

func (CodeBadCharset) Name() ResponseCode { return ResponseCodeBadCharset }

type CodeCapability struct {
	Caps []Cap
}

func (CodeCapability) Name() ResponseCode { return ResponseCodeCapability }

type CodeParse struct{}

func (CodeParse) Name() ResponseCode { return ResponseCodeParse }

type CodePermanentFlags struct {
	Flags []Flag
}

func (CodePermanentFlags) Name() ResponseCode { return ResponseCodePermanentFlags }

type CodeReadOnly struct{}

func (CodeReadOnly) Name() ResponseCode { return ResponseCodeReadOnly }

type CodeReadWrite struct{}

func (CodeReadWrite) Name() ResponseCode { return ResponseCodeReadWrite }

type CodeTryCreate struct{}

func (CodeTryCreate) Name() ResponseCode { return ResponseCodeTryCreate }

type CodeUIDNext struct {
	UID UID
}

func (CodeUIDNext) Name() ResponseCode { return ResponseCodeUIDNext }

type CodeUIDValidity struct {
	UIDValidity uint32
}

func (CodeUIDValidity) Name() ResponseCode { return ResponseCodeUIDValidity }

type CodeUnseen struct {
	SeqNum uint32
}

func (CodeUnseen) Name() ResponseCode { return ResponseCodeUnseen }

type CodeAppendUID struct {
	UIDValidity uint32
	UID         UID
}

func (CodeAppendUID) Name() ResponseCode { return ResponseCodeAppendUID }

type CodeCopyUID struct {
	UIDValidity uint32
	SourceUIDs  SeqSet
	DestUIDs    SeqSet
}

func (CodeCopyUID) Name() ResponseCode { return ResponseCodeCopyUID }

type CodeUIDNotSticky struct{}

func (CodeUIDNotSticky) Name() ResponseCode { return ResponseCodeUIDNotSticky }

type CodeClosed struct{}

func (CodeClosed) Name() ResponseCode { return ResponseCodeClosed }

// CodeOther is a response code without a dedicated type. Text holds the
// raw arguments, if any.
type CodeOther struct {
	Code ResponseCode
	Text string
}

func (code CodeOther) Name() ResponseCode { return code.Code }

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'a' && ch <= 'z' {
			b[i] = ch - 'a' + 'A'
		}
	}
	return string(b)
}
