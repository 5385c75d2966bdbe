package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// CatalogStore 基于Redis的图书目录仓储
// 设计说明：用Redis结构模拟三张表，保持与关系库相同的仓储契约
//
// Key设计（{p}为key_prefix）：
//
//	{p}:titles           List   ISBN插入顺序
//	{p}:title:{isbn}     Hash   isbn/title/editionNumber/copyright
//	{p}:authors          List   authorID插入顺序
//	{p}:author:{id}      Hash   authorID/firstName/lastName
//	{p}:authors:seq      String authorID自增序列（INCR）
//	{p}:authorISBN       List   "authorID:isbn"，允许重复
type CatalogStore struct {
	client *redis.Client
	prefix string
}

// NewCatalogStore 创建Redis图书目录仓储
func NewCatalogStore(client *redis.Client, prefix string) *CatalogStore {
	if prefix == "" {
		prefix = "books"
	}
	return &CatalogStore{client: client, prefix: prefix}
}

// ListBooks 读取全部图书
func (s *CatalogStore) ListBooks(ctx context.Context) ([]catalog.BookRecord, error) {
	isbns, err := s.client.LRange(ctx, s.titlesKey(), 0, -1).Result()
	if err != nil {
		return nil, redisError(err, "查询图书列表失败")
	}

	rows, err := s.hashes(ctx, isbns, s.titleKey)
	if err != nil {
		return nil, redisError(err, "查询图书失败")
	}

	out := make([]catalog.BookRecord, 0, len(rows))
	for i, h := range rows {
		if len(h) == 0 {
			continue // 列表与Hash不一致时以Hash为准
		}
		edition, err := strconv.Atoi(h["editionNumber"])
		if err != nil {
			return nil, redisError(err, fmt.Sprintf("图书%s的版次格式错误", isbns[i]))
		}
		out = append(out, catalog.BookRecord{
			ISBN:          h["isbn"],
			Title:         h["title"],
			EditionNumber: edition,
			Copyright:     h["copyright"],
		})
	}
	return out, nil
}

// ListAuthors 读取全部作者
func (s *CatalogStore) ListAuthors(ctx context.Context) ([]catalog.AuthorRecord, error) {
	ids, err := s.client.LRange(ctx, s.authorsKey(), 0, -1).Result()
	if err != nil {
		return nil, redisError(err, "查询作者列表失败")
	}

	rows, err := s.hashes(ctx, ids, s.authorKeyString)
	if err != nil {
		return nil, redisError(err, "查询作者失败")
	}

	out := make([]catalog.AuthorRecord, 0, len(rows))
	for i, h := range rows {
		if len(h) == 0 {
			continue
		}
		id, err := strconv.Atoi(h["authorID"])
		if err != nil {
			return nil, redisError(err, fmt.Sprintf("作者%s的ID格式错误", ids[i]))
		}
		out = append(out, catalog.AuthorRecord{
			ID:        id,
			FirstName: h["firstName"],
			LastName:  h["lastName"],
		})
	}
	return out, nil
}

// ListAuthorships 读取全部作者-图书关系
func (s *CatalogStore) ListAuthorships(ctx context.Context) ([]catalog.Authorship, error) {
	entries, err := s.client.LRange(ctx, s.authorISBNKey(), 0, -1).Result()
	if err != nil {
		return nil, redisError(err, "查询作者图书关系失败")
	}

	out := make([]catalog.Authorship, 0, len(entries))
	for _, e := range entries {
		idPart, isbn, ok := strings.Cut(e, ":")
		if !ok {
			return nil, redisError(fmt.Errorf("invalid entry %q", e), "作者图书关系格式错误")
		}
		id, err := strconv.Atoi(idPart)
		if err != nil {
			return nil, redisError(err, "作者图书关系格式错误")
		}
		out = append(out, catalog.Authorship{AuthorID: id, ISBN: isbn})
	}
	return out, nil
}

// createBookScript 占住isbn、写入属性、追加到列表在一个脚本里完成
// 脚本在服务端原子执行，请求失败不会留下只有isbn字段的残缺记录
var createBookScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], 'isbn', ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'title', ARGV[2], 'editionNumber', ARGV[3], 'copyright', ARGV[4])
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

// CreateBook 写入图书
// HSETNX占住isbn字段，实现主键唯一
func (s *CatalogStore) CreateBook(ctx context.Context, rec catalog.BookRecord) error {
	created, err := createBookScript.Run(ctx, s.client,
		[]string{s.titleKey(rec.ISBN), s.titlesKey()},
		rec.ISBN, rec.Title, rec.EditionNumber, rec.Copyright,
	).Int()
	if err != nil {
		return redisError(err, "创建图书失败")
	}
	if created == 0 {
		return catalog.ErrISBNDuplicate
	}
	return nil
}

// CreateAuthor 写入作者，ID由INCR分配
func (s *CatalogStore) CreateAuthor(ctx context.Context, firstName, lastName string) (int, error) {
	seq, err := s.client.Incr(ctx, s.authorSeqKey()).Result()
	if err != nil {
		return 0, redisError(err, "分配作者ID失败")
	}
	if seq <= 0 {
		return 0, catalog.ErrKeyNotAssigned
	}
	id := int(seq)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.authorKey(id), map[string]interface{}{
			"authorID":  id,
			"firstName": firstName,
			"lastName":  lastName,
		})
		pipe.RPush(ctx, s.authorsKey(), id)
		return nil
	})
	if err != nil {
		return 0, redisError(err, "创建作者失败")
	}
	return id, nil
}

// CreateAuthorship 追加一条作者-图书关系
func (s *CatalogStore) CreateAuthorship(ctx context.Context, rel catalog.Authorship) error {
	entry := fmt.Sprintf("%d:%s", rel.AuthorID, rel.ISBN)
	if err := s.client.RPush(ctx, s.authorISBNKey(), entry).Err(); err != nil {
		return redisError(err, "创建作者图书关系失败")
	}
	return nil
}

// UpdateBook 覆盖图书属性，图书不存在时返回0
func (s *CatalogStore) UpdateBook(ctx context.Context, rec catalog.BookRecord) (int64, error) {
	return s.updateHash(ctx, s.titleKey(rec.ISBN), bookFields(rec), "更新图书失败")
}

// UpdateAuthor 覆盖作者姓名，作者不存在时返回0
func (s *CatalogStore) UpdateAuthor(ctx context.Context, rec catalog.AuthorRecord) (int64, error) {
	return s.updateHash(ctx, s.authorKey(rec.ID), map[string]interface{}{
		"firstName": rec.FirstName,
		"lastName":  rec.LastName,
	}, "更新作者失败")
}

func (s *CatalogStore) updateHash(ctx context.Context, key string, fields map[string]interface{}, message string) (int64, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, redisError(err, message)
	}
	if n == 0 {
		return 0, nil
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return 0, redisError(err, message)
	}
	return 1, nil
}

// hashes 用Pipeline批量读取Hash，减少网络往返
func (s *CatalogStore) hashes(ctx context.Context, ids []string, keyFn func(string) string) ([]map[string]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, keyFn(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]map[string]string, len(cmds))
	for i, cmd := range cmds {
		out[i] = cmd.Val()
	}
	return out, nil
}

func bookFields(rec catalog.BookRecord) map[string]interface{} {
	return map[string]interface{}{
		"title":         rec.Title,
		"editionNumber": rec.EditionNumber,
		"copyright":     rec.Copyright,
	}
}

func redisError(err error, message string) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, message)
}

func (s *CatalogStore) titlesKey() string {
	return s.prefix + ":titles"
}

func (s *CatalogStore) titleKey(isbn string) string {
	return s.prefix + ":title:" + isbn
}

func (s *CatalogStore) authorsKey() string {
	return s.prefix + ":authors"
}

func (s *CatalogStore) authorKey(id int) string {
	return s.authorKeyString(strconv.Itoa(id))
}

func (s *CatalogStore) authorKeyString(id string) string {
	return s.prefix + ":author:" + id
}

func (s *CatalogStore) authorSeqKey() string {
	return s.prefix + ":authors:seq"
}

func (s *CatalogStore) authorISBNKey() string {
	return s.prefix + ":authorISBN"
}

var _ catalog.Repository = (*CatalogStore)(nil)
