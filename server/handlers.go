package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/models/common"
	"github.com/APTrust/dart-profiles/network"
	"github.com/go-chi/chi/v5"
)

type profileSummary struct {
	Id        string `json:"id"`
	IsBuiltIn bool   `json:"isBuiltIn"`
	Name      string `json:"name"`
}

type validationResponse struct {
	Errors    map[string]string `json:"errors"`
	IsValid   bool              `json:"isValid"`
	TagErrors map[string]string `json:"tagErrors"`
}

type bagNameResponse struct {
	Name  string `json:"name"`
	Valid *bool  `json:"valid,omitempty"`
}

// ListProfiles returns the id, name, and built-in flag of every saved
// profile, sorted by name.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Context.RedisClient.ProfileList()
	if err != nil {
		h.serverError(w, err)
		return
	}
	summaries := make([]profileSummary, len(profiles))
	for i, p := range profiles {
		summaries[i] = profileSummary{Id: p.Id, IsBuiltIn: p.IsBuiltIn, Name: p.Name}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, http.StatusOK, profile)
}

// SaveProfile creates or replaces the profile at {id}. Invalid
// profiles are rejected with the full list of problems.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile, err := bagit.BagItProfileFromJson(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid profile JSON: %v", err))
		return
	}
	if profile.Id == "" {
		profile.Id = id
	}
	if profile.Id != id {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Profile id %s does not match URL id %s", profile.Id, id))
		return
	}
	profile.MakeUserProfile()
	existing, err := h.Context.RedisClient.ProfileGet(id)
	if err == nil && existing.IsBuiltIn {
		writeError(w, http.StatusForbidden, bagit.ErrBuiltInProfile.Error())
		return
	}
	if err != nil && !errors.Is(err, bagit.ErrProfileNotFound) {
		h.serverError(w, err)
		return
	}
	if result := profile.Validate(); !result.IsValid() {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if err := h.saveProfile(r, profile); err != nil {
		h.serverError(w, err)
		return
	}
	h.Context.Logger.Infof("Saved profile %s (%s)", profile.Id, profile.Name)
	h.writeProfile(w, http.StatusOK, profile)
}

// DeleteProfile deletes a profile and its archived copies. Built-in
// profiles can't be deleted.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.Context.RedisClient.ProfileDelete(id)
	if errors.Is(err, bagit.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, bagit.ErrBuiltInProfile) {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	// The archive is a backup. Don't fail the request if it's down.
	if err := h.Context.ProfileArchive.Delete(r.Context(), id); err != nil {
		h.Context.Logger.Warningf("Deleted profile %s, but not its archived copies: %v", id, err)
	}
	h.Context.Logger.Infof("Deleted profile %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// ValidateProfile reports problems with the profile's structure and
// with its individual tags.
func (h *Handler) ValidateProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	result := profile.Validate()
	tagResult := profile.ValidateTags()
	writeJSON(w, http.StatusOK, validationResponse{
		Errors:    result.Errors,
		IsValid:   result.IsValid() && tagResult.IsValid(),
		TagErrors: tagResult.Errors,
	})
}

func (h *Handler) TagFileNames(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile.TagFileNames())
}

// TagFile renders the named tag file from the profile's default and
// user values.
func (h *Handler) TagFile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	tagFile := chi.URLParam(r, "*")
	if !profile.HasTagFile(tagFile) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Profile has no tag file %s", tagFile))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(profile.GetTagFileContents(tagFile)))
}

// ExportProfile returns the profile in the bagit-profiles format.
func (h *Handler) ExportProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	data, err := h.Converter.ExportToStandard(profile).ToJson()
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// BagName suggests a bag name for the profile. With ?name=, it says
// whether that name is valid instead.
func (h *Handler) BagName(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		suggested, err := h.Namer.SuggestBagName(profile)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, bagNameResponse{Name: suggested})
		return
	}
	valid := h.Namer.IsValidBagFileName(profile, name)
	writeJSON(w, http.StatusOK, bagNameResponse{Name: name, Valid: &valid})
}

// ImportProfile converts the document in the request body, which may
// be in any known format, and saves the result. sourceUrl names
// profiles from formats that carry no name of their own.
func (h *Handler) ImportProfile(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := bagit.ParseProfileDocument(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Body is neither JSON nor YAML: %v", err))
		return
	}
	profile, err := h.Converter.Import(doc, r.URL.Query().Get("sourceUrl"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	profile.MakeUserProfile()
	if result := profile.Validate(); !result.IsValid() {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if _, err := h.Context.RedisClient.ProfileGet(profile.Id); err == nil {
		writeError(w, http.StatusConflict, fmt.Sprintf("Profile %s already exists", profile.Id))
		return
	}
	if err := h.saveProfile(r, profile); err != nil {
		h.serverError(w, err)
		return
	}
	h.Context.Logger.Infof("Imported %s profile %s (%s)", bagit.GuessProfileType(doc), profile.Id, profile.Name)
	h.writeProfile(w, http.StatusCreated, profile)
}

// EnqueueImport queues an import request for the import worker.
func (h *Handler) EnqueueImport(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := common.ImportRequestFromJson(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid import request: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Context.NSQClient.EnqueueJson(h.Context.Config.ImportTopic, req); err != nil {
		h.logError(err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.Context.Logger.Infof("Queued import of %s", req.Source())
	writeJSON(w, http.StatusAccepted, req)
}

// loadProfile fetches the profile named in the URL. On failure, it
// writes the error response and returns false.
func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (*bagit.BagItProfile, bool) {
	id := chi.URLParam(r, "id")
	profile, err := h.Context.RedisClient.ProfileGet(id)
	if errors.Is(err, bagit.ErrProfileNotFound) {
		profile, err = h.restoreProfile(r, id)
	}
	if errors.Is(err, bagit.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No profile with id %s", id))
		return nil, false
	}
	if err != nil {
		h.serverError(w, err)
		return nil, false
	}
	return profile, true
}

// saveProfile writes both archive copies of profile, then saves it to
// Redis. The archive never holds an older copy than Redis.
func (h *Handler) saveProfile(r *http.Request, profile *bagit.BagItProfile) error {
	if _, err := h.Context.ProfileArchive.PutProfile(r.Context(), profile); err != nil {
		return err
	}
	if _, err := h.Context.ProfileArchive.PutStandardProfile(r.Context(), profile); err != nil {
		return err
	}
	return h.Context.RedisClient.ProfileSave(profile)
}

// restoreProfile copies an archived profile back into the store when
// Redis has lost it. Archive failures other than a missing object are
// logged and reported as not found.
func (h *Handler) restoreProfile(r *http.Request, id string) (*bagit.BagItProfile, error) {
	profile, err := h.Context.ProfileArchive.GetProfile(r.Context(), id)
	if err != nil {
		if !errors.Is(err, bagit.ErrProfileNotFound) {
			h.Context.Logger.Warningf("Cannot read profile %s from archive: %v", id, err)
		}
		return nil, bagit.ErrProfileNotFound
	}
	if err := h.Context.RedisClient.ProfileSave(profile); err != nil {
		return nil, err
	}
	h.Context.Logger.Infof("Restored profile %s (%s) from archive", id, profile.Name)
	return profile, nil
}

func (h *Handler) writeProfile(w http.ResponseWriter, status int, profile *bagit.BagItProfile) {
	data, err := profile.ToJson()
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeRawJSON(w, status, data)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.logError(err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// logError logs the detailed form of err when there is one.
func (h *Handler) logError(err error) {
	var detailed common.DetailedError
	if errors.As(err, &detailed) {
		h.Context.Logger.Error(detailed.Detail())
		return
	}
	h.Context.Logger.Error(err.Error())
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, network.MaxProfileSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > network.MaxProfileSize {
		return nil, fmt.Errorf("Request body is larger than %d bytes", network.MaxProfileSize)
	}
	return body, nil
}
