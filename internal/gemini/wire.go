package gemini

// Wire types for the generateContent endpoint. Only the fields newsverdict
// reads or writes are declared.

type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch *googleSearch `json:"google_search,omitempty"`
}

type googleSearch struct{}

func newGenerateRequest(prompt string, grounding bool) generateRequest {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if grounding {
		req.Tools = []tool{{GoogleSearch: &googleSearch{}}}
	}
	return req
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           content            `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata"`
}

type groundingMetadata struct {
	GroundingAttributions []groundingRef `json:"groundingAttributions"`
	GroundingChunks       []groundingRef `json:"groundingChunks"`
}

type groundingRef struct {
	Web *webSource `json:"web"`
}

type webSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// source returns the first web attribution. groundingAttributions is
// preferred; current API versions report groundingChunks instead.
func (m *groundingMetadata) source() *webSource {
	if m == nil {
		return nil
	}
	for _, refs := range [][]groundingRef{m.GroundingAttributions, m.GroundingChunks} {
		for _, ref := range refs {
			if ref.Web != nil && (ref.Web.Title != "" || ref.Web.URI != "") {
				return ref.Web
			}
		}
	}
	return nil
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
