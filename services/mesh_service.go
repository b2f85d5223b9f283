package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// BoundingBox is the axis-aligned extent of a mesh in cm
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GeometryResult is the normalized output of mesh analysis. Produced by the
// external analyzer service and consumed opaquely by the pricing engine.
type GeometryResult struct {
	VolumeCm3      float64     `json:"volume_cm3"`
	SurfaceAreaCm2 float64     `json:"surface_area_cm2"`
	BoundingBox    BoundingBox `json:"bounding_box"`
}

// MeshAnalyzer extracts geometry from an uploaded mesh file
type MeshAnalyzer interface {
	Analyze(fileHeader *multipart.FileHeader) (*GeometryResult, error)
}

// RemoteMeshAnalyzer implements MeshAnalyzer against the external analyzer
// service, which does the actual STL parsing.
type RemoteMeshAnalyzer struct {
	baseURL    string
	httpClient *http.Client
}

var meshAnalyzerInstance MeshAnalyzer

// InitMeshAnalyzer initializes the mesh analyzer client for the given analyzer URL
func InitMeshAnalyzer(baseURL string) MeshAnalyzer {
	meshAnalyzerInstance = &RemoteMeshAnalyzer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // large meshes take a while to analyze
		},
	}
	return meshAnalyzerInstance
}

// GetMeshAnalyzer returns the initialized mesh analyzer instance
func GetMeshAnalyzer() MeshAnalyzer {
	return meshAnalyzerInstance
}

// SetMeshAnalyzer sets the mesh analyzer instance (primarily for testing)
func SetMeshAnalyzer(analyzer MeshAnalyzer) {
	meshAnalyzerInstance = analyzer
}

// Analyze sends the mesh file to the analyzer service and returns the
// resulting geometry.
func (a *RemoteMeshAnalyzer) Analyze(fileHeader *multipart.FileHeader) (*GeometryResult, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build analyzer request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, a.baseURL+"/analyze", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call mesh analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mesh analyzer returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result GeometryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
	}

	return &result, nil
}
