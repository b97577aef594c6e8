package shared

import (
	"context"
	"fmt"
	"math"
	"parkade/shared/cache"
	"parkade/shared/dto"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// BuildCacheKey joins a prefix and its parts into a redis key.
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a redis key from the pagination params and an
// arbitrary filter value, so each distinct query caches separately.
func BuildCacheKeyWithQuery(prefix string, req dto.QueryParams, filter any) string {
	return fmt.Sprintf("%s:p%d:l%d:%s:%s:%v", prefix, req.Page, req.Limit, req.SortBy, req.SortDir, filter)
}

// InvalidateCaches clears every cached entry under the given prefix. Failures
// are logged and swallowed since stale entries expire on their own TTL.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
