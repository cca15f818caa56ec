package findings

import (
	"context"
	"hash/fnv"
)

// demoCaptions back the offline client. They read like real captioner
// output so the rest of the pipeline exercises the same code paths.
var demoCaptions = []string{
	"Chest X-ray demonstrates clear lung fields with no acute cardiopulmonary abnormalities. Heart size appears normal.",
	"The radiographic examination shows normal cardiac silhouette and no evidence of pneumonia or pleural effusion.",
	"Bilateral lung fields are clear without focal consolidation. Cardiac outline is within normal limits.",
	"No acute abnormalities detected in the chest radiograph. Recommend clinical correlation.",
	"The imaging study reveals normal findings consistent with healthy lung tissue and cardiac structure.",
}

// OfflineClient serves templated captions when the sidecar is unreachable.
// The caption choice hashes the input so the same upload always yields the
// same text.
type OfflineClient struct{}

var _ Client = OfflineClient{}

func NewOfflineClient() OfflineClient { return OfflineClient{} }

func (OfflineClient) Describe(_ context.Context, image []byte, filename string) (Analysis, error) {
	h := fnv.New32a()
	h.Write([]byte(filename))
	h.Write(image)
	caption := demoCaptions[int(h.Sum32())%len(demoCaptions)]

	return Analysis{
		Caption:    PostprocessCaption(caption),
		Confidence: 0,
		Entities:   ExtractEntities(caption),
		Source:     "offline",
	}, nil
}
