package checks

import (
	"context"
	"fmt"
)

// checkVersion reports the server version string and numeric version.
func checkVersion(ctx context.Context, env *Env) (map[string]any, error) {
	rows, err := env.Executor.Execute(ctx, queryVersion)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("%w: version query returned %d rows", ErrUnexpectedQuery, len(rows))
	}

	version, err := rows[0].String("version")
	if err != nil {
		return nil, err
	}
	versionNum, err := rows[0].Int64("server_version_num")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"version":            version,
		"server_version_num": versionNum,
	}, nil
}
