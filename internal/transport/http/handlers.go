package httptransport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/tts"
	"ttsgateway/internal/tts/inter"
)

// cloneManager is the optional management surface some providers expose on
// top of the uniform CreateVoiceClone operation.
type cloneManager interface {
	DeleteVoiceClone(ctx context.Context, voiceID string) error
	VoiceCloneStatus(ctx context.Context, voiceID string) (string, error)
}

// Handlers binds the facade to the JSON API.
type Handlers struct {
	facade *tts.Facade
	log    *logging.Logger
}

func NewHandlers(facade *tts.Facade, log *logging.Logger) *Handlers {
	if log == nil {
		log = logging.Default()
	}
	return &Handlers{facade: facade, log: log}
}

// Mount registers every route on the API group.
func (h *Handlers) Mount(api *gin.RouterGroup) {
	api.GET("/voices", h.listVoices)
	api.GET("/voices/search", h.searchVoices)
	api.GET("/voices/:id", h.getVoice)
	api.GET("/languages", h.listLanguages)

	api.POST("/synthesize", h.synthesize)
	api.POST("/synthesize/batch", h.synthesizeBatch)
	api.POST("/timing-marks", h.timingMarks)
	api.POST("/validate", h.validate)

	api.POST("/streams", h.createStream)
	api.POST("/streams/:id/text", h.streamSendText)
	api.POST("/streams/:id/finish", h.streamFinish)
	api.GET("/streams/:id/chunk", h.streamReceiveChunk)
	api.GET("/streams/:id/status", h.streamStatus)
	api.DELETE("/streams/:id", h.streamClose)

	api.POST("/voice-clones", h.createVoiceClone)
	api.GET("/voice-clones/:id", h.voiceCloneStatus)
	api.DELETE("/voice-clones/:id", h.deleteVoiceClone)

	api.POST("/lexicons", h.createLexicon)
	api.GET("/lexicons/:id", h.exportLexicon)
}

func filterFromQuery(c *gin.Context) *inter.VoiceFilter {
	filter := &inter.VoiceFilter{
		Language: c.Query("language"),
		Gender:   inter.VoiceGender(c.Query("gender")),
		Quality:  inter.VoiceQuality(c.Query("quality")),
	}
	if filter.Language == "" && filter.Gender == "" && filter.Quality == "" {
		return nil
	}
	return filter
}

func (h *Handlers) listVoices(c *gin.Context) {
	voices, err := h.facade.ListVoices(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"voices": voices, "count": len(voices)}, "")
}

func (h *Handlers) searchVoices(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	voices, err := h.facade.SearchVoices(c.Request.Context(), query, filterFromQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"voices": voices, "count": len(voices)}, "")
}

func (h *Handlers) getVoice(c *gin.Context) {
	voice, err := h.facade.GetVoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, voice, "")
}

func (h *Handlers) listLanguages(c *gin.Context) {
	languages, err := h.facade.ListLanguages(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"languages": languages}, "")
}

type synthesizeRequest struct {
	Input   inter.TextInput        `json:"input"`
	Options inter.SynthesisOptions `json:"options"`
}

func (h *Handlers) synthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	result, err := h.facade.Synthesize(c.Request.Context(), req.Input, req.Options)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, result, "")
}

type synthesizeBatchRequest struct {
	Inputs  []inter.TextInput      `json:"inputs"`
	Options inter.SynthesisOptions `json:"options"`
}

func (h *Handlers) synthesizeBatch(c *gin.Context) {
	var req synthesizeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Inputs) == 0 {
		RespondError(c, http.StatusBadRequest, "inputs must not be empty", nil)
		return
	}

	results, err := h.facade.SynthesizeBatch(c.Request.Context(), req.Inputs, req.Options)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"results": results}, "")
}

func (h *Handlers) timingMarks(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	marks, err := h.facade.GetTimingMarks(c.Request.Context(), req.Input, req.Options.VoiceID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"marks": marks}, "")
}

func (h *Handlers) validate(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	result, err := h.facade.ValidateInput(req.Input, req.Options.VoiceID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, result, "")
}

func (h *Handlers) createStream(c *gin.Context) {
	var options inter.SynthesisOptions
	if err := c.ShouldBindJSON(&options); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	sess, err := h.facade.CreateStream(c.Request.Context(), options)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, sess, "stream created")
}

func (h *Handlers) streamSendText(c *gin.Context) {
	var input inter.TextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	if err := h.facade.StreamSendText(c.Request.Context(), c.Param("id"), input); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "text accepted")
}

func (h *Handlers) streamFinish(c *gin.Context) {
	if err := h.facade.StreamFinish(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "stream finished")
}

func (h *Handlers) streamReceiveChunk(c *gin.Context) {
	chunk, err := h.facade.StreamReceiveChunk(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if chunk == nil {
		RespondSuccess(c, http.StatusOK, gin.H{"chunk": nil}, "no pending chunks")
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"chunk": chunk}, "")
}

func (h *Handlers) streamStatus(c *gin.Context) {
	status, err := h.facade.StreamGetStatus(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, status, "")
}

func (h *Handlers) streamClose(c *gin.Context) {
	if err := h.facade.StreamClose(c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "stream closed")
}

type createCloneRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Samples     []inter.AudioSample `json:"samples"`
}

func (h *Handlers) createVoiceClone(c *gin.Context) {
	var req createCloneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	voiceID, err := h.facade.CreateVoiceClone(c.Request.Context(), req.Name, req.Samples, req.Description)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.facade.InvalidateVoiceCache()
	RespondSuccess(c, http.StatusCreated, gin.H{"voice_id": voiceID}, "voice clone created")
}

func (h *Handlers) voiceCloneStatus(c *gin.Context) {
	manager, ok := h.cloneManager()
	if !ok {
		RespondError(c, http.StatusNotImplemented, "provider does not manage voice clones", nil)
		return
	}

	status, err := manager.VoiceCloneStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"voice_id": c.Param("id"), "status": status}, "")
}

func (h *Handlers) deleteVoiceClone(c *gin.Context) {
	manager, ok := h.cloneManager()
	if !ok {
		RespondError(c, http.StatusNotImplemented, "provider does not manage voice clones", nil)
		return
	}

	if err := manager.DeleteVoiceClone(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	h.facade.InvalidateVoiceCache()
	RespondSuccess(c, http.StatusOK, nil, "voice clone deleted")
}

// cloneManager walks through decorators (the durability wrapper exposes
// Unwrap) looking for a provider with the management surface.
func (h *Handlers) cloneManager() (cloneManager, bool) {
	p := h.facade.Provider
	for p != nil {
		if manager, ok := p.(cloneManager); ok {
			return manager, true
		}
		unwrapper, ok := p.(interface{ Unwrap() inter.Provider })
		if !ok {
			return nil, false
		}
		p = unwrapper.Unwrap()
	}
	return nil, false
}

type createLexiconRequest struct {
	Name     string                     `json:"name"`
	Language string                     `json:"language"`
	Entries  []inter.PronunciationEntry `json:"entries"`
}

func (h *Handlers) createLexicon(c *gin.Context) {
	var req createLexiconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	id, err := h.facade.CreateLexicon(c.Request.Context(), req.Name, req.Language, req.Entries)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, gin.H{"lexicon_id": id}, "lexicon created")
}

func (h *Handlers) exportLexicon(c *gin.Context) {
	content, err := h.facade.ExportLexicon(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"lexicon_id": c.Param("id"), "content": content}, "")
}
