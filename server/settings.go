package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/constants"
	"github.com/go-chi/chi/v5"
)

type settingBody struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GetSetting returns the named setting from Redis or, failing that,
// the config file.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	writeJSON(w, http.StatusOK, settingBody{Name: name, Value: h.Context.Settings.Setting(name)})
}

// SaveSetting stores a setting in Redis, where it overrides the config
// file. The institution domain becomes part of bag names, so it must
// be a legal name on its own.
func (h *Handler) SaveSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	setting := settingBody{}
	if err := json.Unmarshal(body, &setting); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid setting JSON: %v", err))
		return
	}
	setting.Name = name
	if name == constants.SettingInstitutionDomain &&
		(setting.Value == "" || !bagit.NameLooksLegal(setting.Value)) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%q is not a usable institution domain", setting.Value))
		return
	}
	if err := h.Context.Settings.Save(name, setting.Value); err != nil {
		h.serverError(w, err)
		return
	}
	h.Context.Logger.Infof("Saved setting %s = %s", name, setting.Value)
	writeJSON(w, http.StatusOK, setting)
}
