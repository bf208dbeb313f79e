package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey は key がストレージのルート外を指す場合に返る
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage はスナップショットのアーカイブ文書の保存・削除を抽象化するインターフェース。
// ローカルファイルシステム実装の他、S3 / R2 等に差し替え可能。
type Storage interface {
	// Save は文書を保存し、参照 URL を返す。
	// key はストレージ内の一意パス (例: "snapshots/<project>/<uuid>.json")。
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete は key に対応する文書を削除する。存在しない場合はエラーにしない。
	Delete(ctx context.Context, key string) error
}
