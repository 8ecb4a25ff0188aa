package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/inkpress/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	backupRootDir       = "inkpress"
	backupDBDir         = backupRootDir + "/db"
	backupManifestFile  = backupRootDir + "/manifest.json"
	backupFormat        = "inkpress-bson"
	backupFormatVersion = 1
)

// Sessions are left out so a restored dump never revives old logins.
var backupTables = []string{
	models.UserModel{}.TableName(),
	models.AuthorModel{}.TableName(),
	models.CategoryModel{}.TableName(),
	models.PostModel{}.TableName(),
	models.FavoriteModel{}.TableName(),
	models.CommentModel{}.TableName(),
	models.AuthorRequestModel{}.TableName(),
	models.ContactMessageModel{}.TableName(),
	models.FileReferenceModel{}.TableName(),
}

type manifest struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Engine    string    `json:"engine"`
	CreatedAt time.Time `json:"created_at"`
	Tables    []string  `json:"tables"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// Export dumps every collection as concatenated BSON documents into a zip.
func (s *Service) Export(ctx context.Context) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	db := s.db.WithContext(ctx)

	exported := make([]string, 0, len(backupTables))
	for _, table := range backupTables {
		var rows []map[string]interface{}
		if err := db.Table(table).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("read %s: %w", table, err)
		}
		payload, err := encodeBSONRows(rows)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", table, err)
		}
		f, err := w.Create(path.Join(backupDBDir, table+".bson"))
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(payload); err != nil {
			return nil, err
		}
		exported = append(exported, table)
	}

	data, err := json.Marshal(manifest{
		Format:    backupFormat,
		Version:   backupFormatVersion,
		Engine:    db.Dialector.Name(),
		CreatedAt: time.Now().UTC(),
		Tables:    exported,
	})
	if err != nil {
		return nil, err
	}
	mf, err := w.Create(backupManifestFile)
	if err != nil {
		return nil, err
	}
	if _, err := mf.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	s.log.Info("backup exported", zap.Strings("tables", exported), zap.Int("bytes", buf.Len()))
	return buf, nil
}

func normalizeBackupValue(value interface{}) interface{} {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = normalizeBackupValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, normalizeBackupValue(item))
		}
		return out
	default:
		return value
	}
}

func encodeBSONRows(rows []map[string]interface{}) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	for _, row := range rows {
		doc := make(map[string]interface{}, len(row))
		for key, value := range row {
			doc[key] = normalizeBackupValue(value)
		}
		b, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		buffer.Write(b)
	}
	return buffer.Bytes(), nil
}

// decodeBSONRows splits a concatenated BSON stream back into documents.
func decodeBSONRows(payload []byte) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0)
	cursor := 0
	for cursor < len(payload) {
		if cursor+4 > len(payload) {
			return nil, fmt.Errorf("invalid bson payload")
		}
		docLen := int(int32(binary.LittleEndian.Uint32(payload[cursor : cursor+4])))
		if docLen <= 0 || cursor+docLen > len(payload) {
			return nil, fmt.Errorf("invalid bson document length")
		}
		var row map[string]interface{}
		if err := bson.Unmarshal(payload[cursor:cursor+docLen], &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
		cursor += docLen
	}
	return rows, nil
}
