package resumeclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/nao1215/resumerank/pkg/authclient"
	"github.com/nao1215/resumerank/pkg/httpclient"
)

// ランキングサービスに送るパート名と、ファイル名が無い場合の既定値。
const (
	fieldResume         = "resume"
	fieldJobDescription = "job_description"

	defaultResumeFilename         = "resume.pdf"
	defaultJobDescriptionFilename = "job_description.pdf"
)

// rankPath はランキングサービスのエンドポイント。
const rankPath = "/rank"

var (
	// ErrUnauthenticated はトークンが無効と判定されたことを表す。
	ErrUnauthenticated = errors.New("トークンが無効または期限切れです")
	// ErrMissingPart は必要なファイルパートが無いことを表す。
	ErrMissingPart = errors.New("resume と job_description の両方のファイルが必要です")
)

// ProcessingError はランキングサービスの呼び出しに失敗したことを表す。
// StatusCode が0の場合は通信自体に失敗している。
type ProcessingError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error はエラーメッセージを返す。
func (e *ProcessingError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ランキングサービスからのエラー: status=%d body=%s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("ランキングサービスの呼び出しに失敗: %v", e.Err)
}

// Unwrap は元のエラーを返す。
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// FilePart はメモリに読み込んだ1つのファイル。
type FilePart struct {
	// Filename は元のファイル名。空の場合は既定値を使う。
	Filename string
	// Data はファイルの中身。
	Data []byte
}

// RankResult はランキングサービスの結果。
type RankResult struct {
	SimilarityScore float64 `json:"similarity_score"`
	LLMAnalysis     string  `json:"llm_analysis"`
}

// Validator はトークンを検証して判定の詳細を返す。失敗時は無効として扱う。
type Validator interface {
	ValidateWithDetails(ctx context.Context, token string) authclient.Verdict
}

// PartLoader は2つのファイルパートを読み込む。
// 認証が通った後にだけ呼ばれる。
type PartLoader func() (resume, jobDescription FilePart, err error)

// Relay はトークンを検証したうえでファイルをランキングサービスに送り直す。
type Relay struct {
	validator Validator
	ranker    *httpclient.Client
}

// NewRelay は新しいRelayを生成する。
func NewRelay(validator Validator, ranker *httpclient.Client) *Relay {
	return &Relay{validator: validator, ranker: ranker}
}

// Rank はトークンを検証し、有効であればパートを読み込んでランキングを依頼する。
// 無効な場合は ErrUnauthenticated、ランキングサービスの失敗は *ProcessingError を返す。
// load が返したエラーはそのまま返す。
func (r *Relay) Rank(ctx context.Context, token string, load PartLoader) (RankResult, error) {
	if v := r.validator.ValidateWithDetails(ctx, token); !v.Valid {
		return RankResult{}, ErrUnauthenticated
	}

	resume, jobDescription, err := load()
	if err != nil {
		return RankResult{}, err
	}

	contentType, body, err := buildRankRequest(resume, jobDescription)
	if err != nil {
		return RankResult{}, &ProcessingError{Err: err}
	}

	var result RankResult
	if err := r.ranker.Post(ctx, rankPath, contentType, body, &result); err != nil {
		if se, ok := httpclient.AsStatusError(err); ok {
			return RankResult{}, &ProcessingError{StatusCode: se.StatusCode, Body: se.Body, Err: err}
		}
		return RankResult{}, &ProcessingError{Err: err}
	}
	return result, nil
}

// buildRankRequest はランキングサービスに送るマルチパートボディを組み立てる。
func buildRankRequest(resume, jobDescription FilePart) (string, *bytes.Buffer, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if err := writeFilePart(w, fieldResume, resume, defaultResumeFilename); err != nil {
		return "", nil, err
	}
	if err := writeFilePart(w, fieldJobDescription, jobDescription, defaultJobDescriptionFilename); err != nil {
		return "", nil, err
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("マルチパートの終端書き込みに失敗: %w", err)
	}
	return w.FormDataContentType(), body, nil
}

func writeFilePart(w *multipart.Writer, field string, p FilePart, defaultFilename string) error {
	filename := p.Filename
	if filename == "" {
		filename = defaultFilename
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("%s パートの作成に失敗: %w", field, err)
	}
	if _, err := part.Write(p.Data); err != nil {
		return fmt.Errorf("%s パートの書き込みに失敗: %w", field, err)
	}
	return nil
}

// ReadFilePart はアップロードされたファイルを全てメモリに読み込む。
func ReadFilePart(fh *multipart.FileHeader) (FilePart, error) {
	f, err := fh.Open()
	if err != nil {
		return FilePart{}, fmt.Errorf("ファイルのオープンに失敗: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return FilePart{}, fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}
	return FilePart{Filename: fh.Filename, Data: data}, nil
}
