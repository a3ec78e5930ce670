package handlers

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"imagestudio/internal/gateway"
	"imagestudio/internal/middleware"
)

const (
	msgNotAuthenticated   = "Not authenticated"
	msgInvalidPayload     = "invalid payload"
	msgInternal           = "Internal server error"
	msgAuthFailed         = "Authentication failed"
	msgTokenFailed        = "Failed to get token"
	msgLogoutFailed       = "Failed to logout"
	msgLoggedOut          = "Logged out successfully"
	msgGenerateFailed     = "Failed to generate image"
	msgVariantFailed      = "Failed to create variant"
	msgStatusFailed       = "Failed to get status"
	msgImageIDRequired    = "Image model ID is required"
	msgLoginSucceeded     = gateway.LoginSucceeded
	msgPromptRequired     = "Prompt is required"
	msgAPIKeyRequired     = "API key is required"
	msgClientCredRequired = "Client ID and Client Secret are required"
	msgIDButtonRequired   = "Image ID and button are required"
)

// indonesian holds the id translations. English text doubles as the key.
var indonesian = map[string]string{
	msgNotAuthenticated:   "Belum terautentikasi",
	msgInvalidPayload:     "payload tidak valid",
	msgInternal:           "Terjadi kesalahan pada server",
	msgAuthFailed:         "Autentikasi gagal",
	msgTokenFailed:        "Gagal mendapatkan token",
	msgLogoutFailed:       "Gagal keluar",
	msgLoggedOut:          "Berhasil keluar",
	msgGenerateFailed:     "Gagal membuat gambar",
	msgVariantFailed:      "Gagal membuat variasi",
	msgStatusFailed:       "Gagal mengambil status",
	msgImageIDRequired:    "ID model gambar wajib diisi",
	msgLoginSucceeded:     "Autentikasi berhasil",
	msgPromptRequired:     "Prompt wajib diisi",
	msgAPIKeyRequired:     "API key wajib diisi",
	msgClientCredRequired: "Client ID dan Client Secret wajib diisi",
	msgIDButtonRequired:   "ID gambar dan tombol wajib diisi",
}

var printers = buildPrinters()

func buildPrinters() map[language.Tag]*message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for en, id := range indonesian {
		_ = b.SetString(language.English, en, en)
		_ = b.SetString(language.Indonesian, en, id)
	}
	out := make(map[language.Tag]*message.Printer, len(middleware.SupportedLocales))
	for _, tag := range middleware.SupportedLocales {
		out[tag] = message.NewPrinter(tag, message.Catalog(b))
	}
	return out
}

// translate localizes a known message for the request locale. Unknown text,
// such as provider messages, is returned unchanged.
func translate(r *http.Request, msg string) string {
	if _, ok := indonesian[msg]; !ok {
		return msg
	}
	p, ok := printers[middleware.LocaleTagFromContext(r.Context())]
	if !ok {
		return msg
	}
	return p.Sprintf(msg)
}
