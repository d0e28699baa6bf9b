package tracker

import "encoding/json"

// SchemaVersion 是台账文档的持久化版本号，版本不符直接重置。
const SchemaVersion = 1

// Document 是持久化的唯一单元：整读、内存修改、整写。
// key 在 Items 内唯一。
type Document struct {
	Version   int      `json:"version"`
	UpdatedTS int64    `json:"updated_ts"`
	Items     []Record `json:"items"`
}

// NewDocument 返回空台账文档。
func NewDocument() Document {
	return Document{Version: SchemaVersion, Items: []Record{}}
}

// DecodeDocument 解析持久化 blob。缺失、损坏、版本不符、形状不对
// 一律退回空文档，损坏永远不向上传播。
func DecodeDocument(blob []byte) Document {
	if len(blob) == 0 {
		return NewDocument()
	}
	var doc Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return NewDocument()
	}
	if doc.Version != SchemaVersion {
		return NewDocument()
	}
	if doc.Items == nil {
		doc.Items = []Record{}
	}
	return doc
}

// EncodeDocument 序列化台账文档。
func EncodeDocument(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}
