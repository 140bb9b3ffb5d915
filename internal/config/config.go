package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Genie/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Genie"
	AppID             = "com.github.tartampluch.go-genie"
	AppDirName        = "go-genie"
	KeyringService    = "com.github.tartampluch.go-genie"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "genie.log"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeConfig  = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the calendar, guard, settings and log files.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands & Flags
// -----------------------------------------------------------------------------

const (
	CmdName     = "go-genie"
	CmdRun      = "run"
	CmdDispatch = "dispatch"
	CmdList     = "list"
	CmdHistory  = "history"
	CmdServe    = "serve"
	CmdInit     = "init"

	FlagConfig   = "config"
	FlagDebug    = "debug"
	FlagVersion  = "version"
	FlagLimit    = "limit"
	FlagLogin    = "login"
	FlagPassword = "password"
	FlagPort     = "port"
	FlagForce    = "force"

	FlagDescConfig   = "Path to the settings file"
	FlagDescDebug    = "Enable debug logging to stderr"
	FlagDescVersion  = "Show application version and exit"
	FlagDescLimit    = "Maximum number of delivery attempts to show"
	FlagDescLogin    = "Login written to the credentials file"
	FlagDescPassword = "Password stored in the OS keyring for the login"
	FlagDescPort     = "Port for the calendar feed (overrides settings)"
	FlagDescForce    = "Overwrite an existing settings file"

	DescRoot     = "Send scheduled birthday greetings to your contacts"
	DescRun      = "Refresh the calendar, send today's greetings and open the interactive menu"
	DescDispatch = "Refresh the calendar and send today's greetings without prompting"
	DescList     = "List birthday entries by next occurrence"
	DescHistory  = "Show recent delivery attempts"
	DescServe    = "Serve the birthday calendar as a read-only iCalendar feed"
	DescInit     = "Write default settings and an empty fetch guard"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	DefaultHistory   = 20
)

// -----------------------------------------------------------------------------
// CLI Output
// -----------------------------------------------------------------------------

const (
	OutListEntry    = "%s  %s (%s)\n"
	OutListMessage  = "            %q\n"
	OutListEmpty    = "No birthday entries.\n"
	OutHistoryEntry = "%s  %-6s  %s  %s (%s)\n"
	OutHistoryError = "                  %s\n"
	OutHistoryEmpty = "No delivery attempts recorded.\n"
	OutDispatch     = "Sent: %d, failed: %d\n"
	OutInitSettings = "Settings written to %s\n"
	OutInitGuard    = "Fetch guard created at %s\n"
	OutInitCreds    = "Credentials file written to %s\n"
	OutInitPassword = "Password stored in the keyring for %s\n"
	OutServe        = "Serving %s on http://%s:%s/\n"
	OutError        = "Error: %v\n"
	DateTimeHistory = "2006-01-02 15:04"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"

	DefaultPort            = "18081"
	DefaultLanguage        = "en"
	DefaultLeapYear        = 2000 // Leap year used to validate month/day pairs like 02-29
	DefaultSettingsFile    = "settings.yaml"
	DefaultCalendarFile    = "birthdays.ics"
	DefaultGuardFile       = "last_fetch.txt"
	DefaultJournalFile     = "journal.db"
	DefaultCredentialsFile = "credentials.txt"
	DefaultAddressBook     = "contacts.vcf"
	DefaultSendTimeout     = 30 * time.Second

	UIDSalt = "go-genie-v1-" // Salt for deterministic contact ids
)

// SupportedLanguages defines the list of available operator languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Environment
// -----------------------------------------------------------------------------

const (
	EnvPrefix = "GENIE_"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Genie//Birthday Calendar//EN"
	ICalCalName = "Birthdays"
	ICalScale   = "GREGORIAN"

	PropXWRCalName = "X-WR-CALNAME"

	// SummaryPrefix precedes the display name in each event SUMMARY.
	SummaryPrefix = "Birthday: "

	// FallbackName is shown for cards with neither FN nor N.
	FallbackName = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object written for an empty calendar.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// DateFormatGuard is the ISO date stored in the fetch guard file.
	DateFormatGuard = "2006-01-02"

	// DateFormatMonthDay is the operator input format for birthdays (mm-dd).
	DateFormatMonthDay = "01-02"

	// DateFormatDisplay is used by list and history output.
	DateFormatDisplay = "2006-01-02"

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s|%s"

	// FormatIDSuffix disambiguates a contact id already taken in the stream.
	FormatIDSuffix = "%s-%d"
)

// -----------------------------------------------------------------------------
// Delivery Journal
// -----------------------------------------------------------------------------

const (
	JournalDriver = "sqlite"

	// JournalDSNOptions is appended to the database path when opening the journal.
	JournalDSNOptions = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	FeedReloadInterval  = time.Minute
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Translation Keys (i18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome        = "welcome"
	TKeyDispatchReport = "dispatch_report" // Requires Sent, Failed
	TKeyMenuPrompt     = "menu_prompt"
	TKeyMenuEdit       = "menu_edit"
	TKeyMenuSchedule   = "menu_schedule"
	TKeyMenuExit       = "menu_exit"
	TKeyAskName        = "ask_name"
	TKeyChooseContact  = "choose_contact"
	TKeyContactOption  = "contact_option" // Requires Name, URL, Photo
	TKeyAskBirthday    = "ask_birthday"
	TKeyMessageType    = "message_type"
	TKeyMessageRandom  = "message_random"
	TKeyMessageDraft   = "message_draft"
	TKeyWishKind       = "wish_kind"
	TKeyWishSerious    = "wish_serious"
	TKeyWishFunny      = "wish_funny"
	TKeyAskMessage     = "ask_message"
	TKeyBirthdaySaved  = "birthday_saved" // Requires Name, Date
	TKeyMessageSaved   = "message_saved"  // Requires Name, Date
	TKeyGoodbye        = "goodbye"
	TKeyChoiceHint     = "choice_hint" // Requires Max

	TKeyErrNotFound = "err_not_found" // Requires Name
	TKeyErrNoEntry  = "err_no_entry"  // Requires Name
	TKeyErrDate     = "err_date"
	TKeyErrEmpty    = "err_empty"
	TKeyErrChoice   = "err_choice" // Requires Max
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNotFound           = "not found"
	ErrEmptyName          = "name must not be empty"
	ErrUnknownContact     = "contact is not in the directory"
	ErrNoEntry            = "no birthday entry for contact"
	ErrEmptyMessage       = "message must not be empty"
	ErrInvalidDate        = "invalid month/day"
	ErrNotOpen            = "scheduler is not open"
	ErrCalendarLoad       = "failed to load calendar"
	ErrCalendarSave       = "failed to save calendar"
	ErrCalendarDecode     = "failed to decode calendar"
	ErrCalendarEncode     = "failed to encode calendar"
	ErrCalendarEmptyFile  = "calendar file is empty or truncated"
	ErrGuardMissing       = "fetch guard file is missing (run init)"
	ErrGuardRead          = "failed to read fetch guard"
	ErrGuardWrite         = "failed to write fetch guard"
	ErrGuardParse         = "fetch guard holds an invalid date"
	ErrFetchContacts      = "failed to fetch contacts"
	ErrCredentialsMissing = "credentials file is missing"
	ErrCredentialsLogin   = "credentials file has no login"
	ErrPasswordMissing    = "no password in credentials file or keyring"
	ErrKeyringWrite       = "failed to store password in keyring"
	ErrSettingsRead       = "failed to read settings"
	ErrSettingsParse      = "failed to parse settings"
	ErrSettingsEnv        = "failed to parse settings environment"
	ErrSettingsWrite      = "failed to write settings"
	ErrSettingsExists     = "settings file already exists"
	ErrLanguage           = "unsupported language"
	ErrLocalPathEmpty     = "configuration error: contacts local path is empty"
	ErrWebURLEmpty        = "configuration error: contacts URL is empty"
	ErrWebhookEmpty       = "configuration error: delivery webhook URL is empty"
	ErrModeUnsupport      = "configuration error: unsupported contacts mode"
	ErrFetcherMissing     = "internal error: network fetcher is not initialized"
	ErrInvalidURL         = "invalid URL structure"
	ErrProtocol           = "unsupported protocol scheme (http/https only)"
	ErrVCardParse         = "failed to parse vCard stream"
	ErrDateParse          = "unable to parse date"
	ErrRequest            = "failed to create request"
	ErrNetwork            = "network error during request"
	ErrHTTPStatus         = "server returned unexpected status"
	ErrSendFailed         = "message delivery failed"
	ErrSendStatus         = "delivery endpoint returned unexpected status"
	ErrSessionClosed      = "session is closed"
	ErrJournalOpen        = "failed to open delivery journal"
	ErrJournalPath        = "journal path is required"
	ErrJournalWrite       = "failed to record delivery"
	ErrJournalRead        = "failed to read delivery journal"
	ErrJournalLimit       = "limit must be greater than zero"
	ErrServerStartup      = "server startup failed"
	ErrServerShutdown     = "server shutdown failed"
	ErrPortRequired       = "server port is required"
	ErrWriteResp          = "failed to write response body"
	ErrWishKind           = "unknown wish kind"
	ErrWishEmpty          = "wish list is empty"
	ErrPromptAborted      = "input closed"
	ErrLogFile            = "failed to open log file"
	ErrCacheDir           = "could not determine user cache dir"
	ErrConfigDir          = "could not determine user config dir"
	ErrCreateDir          = "could not create app directory"
	ErrAppFailed          = "application failed"
	ErrSettingsInvalid    = "invalid settings"
	ErrSessionLogin       = "failed to open session"
	ErrDispatchIncomplete = "some birthday messages could not be delivered"
	ErrPasswordNoLogin    = "--password requires --login"
	ErrCredentialsWrite   = "failed to write credentials file"
	ErrLocalesAccess      = "failed to access embedded locales"
	ErrLocaleLoad         = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped"
	MsgEnvFileSkipped  = "No .env file loaded"
	MsgRunOpened       = "Run opened"
	MsgBootstrap       = "No calendar on disk, bootstrapping from contacts"
	MsgFetchSkipped    = "Contacts already fetched today, skipping reconciliation"
	MsgDirectoryLoaded = "Contact directory loaded"
	MsgReconciled      = "Calendar reconciled"
	MsgPruneSkipped    = "Directory is empty, pruning skipped"
	MsgDispatchDone    = "Dispatch finished"
	MsgDelivered       = "Birthday message delivered"
	MsgDeliveryFailed  = "Birthday message delivery failed, entry not advanced"
	MsgJournalFailed   = "Delivery could not be journaled"
	MsgJournaled       = "Delivery journaled"
	MsgBirthdaySet     = "Birthday updated"
	MsgMessageSet      = "Message scheduled"
	MsgCalendarSaved   = "Calendar saved"
	MsgCalendarLoaded  = "Calendar loaded"
	MsgSkippedEvent    = "Skipping calendar event without UID or start date"
	MsgDuplicateEvent  = "Duplicate calendar UID, keeping the last one"
	MsgNotYearly       = "Calendar event is not yearly recurring"
	MsgSkippedDate     = "Skipping invalid birthday format"
	MsgDuplicateID     = "Contact id already taken, suffixing with card position"
	MsgSessionOpened   = "Session opened"
	MsgSessionClosed   = "Session closed"
	MsgSending         = "Sending message"
	MsgFetchStarted    = "Initiating vCard download"
	MsgFetchStatus     = "Server returned error status"
	MsgFetchStreaming  = "vCards downloading"
	MsgCardsDecoded    = "Address book decoded"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar feed updated"
	MsgFeedReloadFail  = "Calendar feed reload failed, serving previous version"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgSettingsWritten = "Settings written"
	MsgGuardCreated    = "Fetch guard created"
	MsgPasswordStored  = "Password stored in keyring"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyRun       = "run_id"
	LogKeyContact   = "contact_id"
	LogKeyName      = "name"
	LogKeyDate      = "date"
	LogKeyUser      = "user"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyEntries   = "entries"
	LogKeyContacts  = "contacts"
	LogKeyAdded     = "added"
	LogKeyUpdated   = "updated"
	LogKeyPruned    = "pruned"
	LogKeyRetained  = "retained"
	LogKeySent      = "sent"
	LogKeyFailed    = "failed"
	LogKeyDue       = "due"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyOutcome   = "outcome"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompCLI       = "cli"
	CompScheduler = "scheduler"
	CompDispatch  = "dispatcher"
	CompStore     = "store"
	CompJournal   = "journal"
	CompFetcher   = "fetcher"
	CompSession   = "session"
	CompSender    = "sender"
	CompServer    = "server"
	CompUI        = "ui"
	CompI18n      = "i18n"
)
