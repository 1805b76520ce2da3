package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// DefaultMovieLimit 默认只取文件前 200 部电影
const DefaultMovieLimit = 200

// genreNames 是 MovieLens u.item 格式的 19 个类型标志位对应的类型名，顺序固定。
var genreNames = [19]string{
	"unknown", "Action", "Adventure", "Animation", "Children's",
	"Comedy", "Crime", "Documentary", "Drama", "Fantasy",
	"Film-Noir", "Horror", "Musical", "Mystery", "Romance",
	"Sci-Fi", "Thriller", "War", "Western",
}

// LoadMovies 解析管道分隔的电影文件（movieId|title|19 个 0/1 类型标志）。
// limit <= 0 时使用 DefaultMovieLimit。空行跳过，格式错误的行直接报错。
func LoadMovies(path string, limit int) ([]*core.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movies file: %w", err)
	}
	defer f.Close()

	if limit <= 0 {
		limit = DefaultMovieLimit
	}

	movies := make([]*core.Movie, 0, limit)
	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() && len(movies) < limit {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		movie, err := parseMovieLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		movies = append(movies, movie)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read movies file: %w", err)
	}

	return movies, nil
}

func parseMovieLine(line string) (*core.Movie, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 2+len(genreNames) {
		return nil, fmt.Errorf("expected %d fields, got %d", 2+len(genreNames), len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %q", fields[0])
	}

	movie := &core.Movie{
		ID:    id,
		Title: fields[1],
	}
	for i, name := range genreNames {
		if fields[2+i] == "1" {
			movie.Genres = append(movie.Genres, name)
		}
	}
	return movie, nil
}

// MovieIDs 返回电影 ID 列表，保持输入顺序。
// 这个顺序是用户评分向量的维度顺序，数据集内必须全程一致。
func MovieIDs(movies []*core.Movie) []int64 {
	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}
