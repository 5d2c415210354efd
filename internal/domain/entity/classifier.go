package entity

// ClassifierState — состояние загрузки модели.
type ClassifierState string

const (
	ClassifierUnloaded   ClassifierState = "unloaded"
	ClassifierLoading    ClassifierState = "loading"
	ClassifierReady      ClassifierState = "ready"
	ClassifierLoadFailed ClassifierState = "load_failed"
)

// Terminal сообщает, что загрузка завершена (успешно или нет).
func (s ClassifierState) Terminal() bool {
	return s == ClassifierReady || s == ClassifierLoadFailed
}

// ModelManifest описывает артефакт модели (model.json).
type ModelManifest struct {
	Format              string         `json:"format"`
	GeneratedBy         string         `json:"generatedBy,omitempty"`
	WeightsManifest     []WeightsGroup `json:"weightsManifest"`
	UserDefinedMetadata ModelMetadata  `json:"userDefinedMetadata"`
}

// WeightsGroup — группа файлов весов.
type WeightsGroup struct {
	Paths []string `json:"paths"`
}

// ModelMetadata — параметры входа и список классов.
type ModelMetadata struct {
	Classes   []string `json:"classes,omitempty"`
	InputName string   `json:"inputName,omitempty"`
	ImageSize int      `json:"imageSize,omitempty"`
}

// ModelArtifact — скачанный манифест вместе с весами.
type ModelArtifact struct {
	Manifest ModelManifest
	Weights  []byte
}
