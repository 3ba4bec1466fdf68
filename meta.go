package watermark

import (
	"encoding/json"
	"fmt"
)

// jsonObjects mirrors the metadata shape DL Streamer pipelines externalize
// via gvametaconvert: a list of objects, each with an optional detection
// block (normalized bounding box, label, class id) and attached tensors.
type jsonObjects struct {
	Objects []struct {
		ID int `json:"id"`

		// Absolute pixel rectangle; used when no detection block with a
		// normalized box is present.
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"w"`
		H float64 `json:"h"`

		Detection *struct {
			BoundingBox struct {
				XMin float64 `json:"x_min"`
				YMin float64 `json:"y_min"`
				XMax float64 `json:"x_max"`
				YMax float64 `json:"y_max"`
			} `json:"bounding_box"`
			Label   string `json:"label"`
			LabelID int    `json:"label_id"`
		} `json:"detection"`

		Tensors []struct {
			Name   string    `json:"name"`
			Format string    `json:"format"`
			Label  string    `json:"label"`
			Data   []float32 `json:"data"`
		} `json:"tensors"`
	} `json:"objects"`
}

// ParseObjectsJSON decodes DL-Streamer-style JSON frame metadata into a
// Region list. Hosting apps that receive inference metadata out of band
// (message bus, side channel) can feed the result to a Watermark through a
// RegionList.
func ParseObjectsJSON(data []byte) ([]Region, error) {
	var envelope jsonObjects
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("watermark: decode objects JSON: %w", err)
	}

	regions := make([]Region, 0, len(envelope.Objects))
	for _, obj := range envelope.Objects {
		region := Region{
			ObjectID: obj.ID,
			PixelRect: Rect{
				X: obj.X, Y: obj.Y, W: obj.W, H: obj.H,
			},
		}
		if det := obj.Detection; det != nil {
			region.Label = det.Label
			region.LabelID = det.LabelID
			bb := det.BoundingBox
			region.NormalizedRect = Rect{
				X: bb.XMin,
				Y: bb.YMin,
				W: bb.XMax - bb.XMin,
				H: bb.YMax - bb.YMin,
			}
		}
		for _, t := range obj.Tensors {
			region.Tensors = append(region.Tensors, Tensor{
				Name:      t.Name,
				Format:    t.Format,
				Label:     t.Label,
				Detection: t.Name == "detection",
				Data:      t.Data,
			})
		}
		regions = append(regions, region)
	}
	return regions, nil
}
