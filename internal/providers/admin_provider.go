package providers

import (
	"bytes"
	"os"
	"waifud/internal/structures"

	json "github.com/goccy/go-json"
)

type AdminProviderInterface interface {
	Admins() []string
}

// AdminProvider reads the admin ID list once at startup. Any failure yields an
// empty list, never an error: a broken admins file must not take the daemon
// down, it only disables admin-gated commands.
type AdminProvider struct {
	admins []string
}

func NewAdminProvider(conf *structures.Config, logger Logger) AdminProviderInterface {
	ap := &AdminProvider{}
	if conf.Store.AdminsFile == "" {
		return ap
	}

	data, err := os.ReadFile(conf.Store.AdminsFile)
	if err != nil {
		logger.Errorf(TypeApp, "Failed to read admins file %s: %s", conf.Store.AdminsFile, err)
		return ap
	}
	// Some deployments write this file with a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	var payload struct {
		AdminsID []string `json:"admins_id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Errorf(TypeApp, "Failed to parse admins file %s: %s", conf.Store.AdminsFile, err)
		return ap
	}
	ap.admins = payload.AdminsID
	return ap
}

func (ap *AdminProvider) Admins() []string {
	return ap.admins
}
