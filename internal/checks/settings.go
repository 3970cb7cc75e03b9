package checks

import "context"

// Settings checks share one shape: {"settings": map[name]value}. A
// missing extension is a benign state and yields an empty map, never an
// error.

func checkStatStatementsSettings(ctx context.Context, env *Env) (map[string]any, error) {
	installed, err := statStatementsInstalled(ctx, env)
	if err != nil {
		return nil, err
	}
	if !installed {
		return map[string]any{"settings": map[string]string{}}, nil
	}
	return settingsData(ctx, env, queryStatStatementsSettings)
}

func checkAutovacuumSettings(ctx context.Context, env *Env) (map[string]any, error) {
	return settingsData(ctx, env, queryAutovacuumSettings)
}

func checkMemorySettings(ctx context.Context, env *Env) (map[string]any, error) {
	return settingsData(ctx, env, queryMemorySettings)
}

func settingsData(ctx context.Context, env *Env, sql string) (map[string]any, error) {
	rows, err := env.Executor.Execute(ctx, sql)
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		name, err := row.String("name")
		if err != nil {
			return nil, err
		}
		value, err := row.String("setting")
		if err != nil {
			return nil, err
		}
		settings[name] = value
	}

	return map[string]any{"settings": settings}, nil
}

func statStatementsInstalled(ctx context.Context, env *Env) (bool, error) {
	rows, err := env.Executor.Execute(ctx, queryStatStatementsInstalled)
	if err != nil {
		return false, err
	}
	if len(rows) != 1 {
		return false, ErrUnexpectedQuery
	}
	return rows[0].Bool("installed")
}
