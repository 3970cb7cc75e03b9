package checks

// Diagnostic SQL. Each query is a fixed string; handlers consume its
// rows by the aliased column names and fail loudly if one is absent.

const queryVersion = `select version() as version,
       current_setting('server_version_num')::int as server_version_num`

const queryStatStatementsInstalled = `select exists(
    select 1 from pg_extension where extname = 'pg_stat_statements') as installed`

const queryStatStatementsSettings = `select name, setting
    from pg_settings
    where name like 'pg_stat_statements.%' or name like 'pg_stat_kcache.%'
    order by name`

const queryAutovacuumSettings = `select name, setting
    from pg_settings
    where category like 'Autovacuum%' or name like '%autovacuum%'
    order by name`

const queryMemorySettings = `select name, setting
    from pg_settings
    where name in (
        'shared_buffers', 'work_mem', 'maintenance_work_mem',
        'effective_cache_size', 'temp_buffers', 'max_connections',
        'wal_buffers', 'huge_pages')
    order by name`

const queryInvalidIndexes = `select
        n.nspname as schema_name,
        ct.relname as table_name,
        ci.relname as index_name,
        pg_relation_size(i.indexrelid) as index_size_bytes,
        pg_get_indexdef(i.indexrelid) as index_definition,
        i.indisprimary as is_pk,
        i.indisunique as is_unique,
        exists(
            select 1 from pg_constraint c
            where c.contype = 'f' and c.conindid = i.indexrelid
        ) as supports_fk,
        exists(
            select 1
            from pg_index i2
            join pg_class ci2 on ci2.oid = i2.indexrelid
            where i2.indrelid = i.indrelid
              and i2.indexrelid <> i.indexrelid
              and i2.indisvalid
              and i2.indkey::text = i.indkey::text
              and coalesce(pg_get_expr(i2.indpred, i2.indrelid), '') =
                  coalesce(pg_get_expr(i.indpred, i.indrelid), '')
        ) as has_valid_duplicate,
        ct.reltuples::bigint as table_row_estimate
    from pg_index i
    join pg_class ci on ci.oid = i.indexrelid
    join pg_class ct on ct.oid = i.indrelid
    join pg_namespace n on n.oid = ct.relnamespace
    where not i.indisvalid
    order by pg_relation_size(i.indexrelid) desc`

const queryUnusedIndexes = `select
        s.schemaname as schema_name,
        s.relname as table_name,
        s.indexrelname as index_name,
        pg_relation_size(s.indexrelid) as index_size_bytes,
        pg_get_indexdef(s.indexrelid) as index_definition,
        i.indisprimary as is_pk,
        i.indisunique as is_unique,
        exists(
            select 1 from pg_constraint c
            where c.contype = 'f' and c.conindid = s.indexrelid
        ) as supports_fk,
        c.reltuples::bigint as table_row_estimate
    from pg_stat_user_indexes s
    join pg_index i on i.indexrelid = s.indexrelid
    join pg_class c on c.oid = s.relid
    where s.idx_scan = 0
      and not i.indisprimary
      and not i.indisunique
    order by pg_relation_size(s.indexrelid) desc`

const queryRedundantIndexes = `select
        n.nspname as schema_name,
        ct.relname as table_name,
        ci.relname as index_name,
        pg_relation_size(i.indexrelid) as index_size_bytes,
        pg_get_indexdef(i.indexrelid) as index_definition,
        i.indisprimary as is_pk,
        i.indisunique as is_unique,
        exists(
            select 1 from pg_constraint c
            where c.contype = 'f' and c.conindid = i.indexrelid
        ) as supports_fk,
        ct.reltuples::bigint as table_row_estimate,
        (
            select coalesce(json_agg(json_build_object(
                'index_name', ci2.relname,
                'index_definition', pg_get_indexdef(i2.indexrelid),
                'index_size_bytes', pg_relation_size(i2.indexrelid))), '[]')
            from pg_index i2
            join pg_class ci2 on ci2.oid = i2.indexrelid
            where i2.indrelid = i.indrelid
              and i2.indexrelid <> i.indexrelid
              and i2.indisvalid
              and (i2.indkey::text = i.indkey::text
                   or position(i.indkey::text || ' ' in i2.indkey::text || ' ') = 1)
        )::text as covered_by
    from pg_index i
    join pg_class ci on ci.oid = i.indexrelid
    join pg_class ct on ct.oid = i.indrelid
    join pg_namespace n on n.oid = ct.relnamespace
    where i.indisvalid
      and not i.indisprimary
      and not i.indisunique
      and exists(
            select 1
            from pg_index i2
            where i2.indrelid = i.indrelid
              and i2.indexrelid <> i.indexrelid
              and i2.indisvalid
              and (i2.indkey::text = i.indkey::text
                   or position(i.indkey::text || ' ' in i2.indkey::text || ' ') = 1))
    order by pg_relation_size(i.indexrelid) desc`

const queryStatsResetEpoch = `select
        coalesce(extract(epoch from stats_reset), extract(epoch from now()))::bigint as stats_reset_epoch,
        extract(epoch from now())::bigint as now_epoch
    from pg_stat_database
    where datname = current_database()`

const queryTopStatements = `select
        d.datname as datname,
        s.queryid::text as queryid,
        r.rolname as usename,
        s.calls::float8 as calls,
        s.total_exec_time as total_time,
        s.rows::float8 as rows
    from pg_stat_statements s
    join pg_database d on d.oid = s.dbid
    join pg_roles r on r.oid = s.userid
    order by s.total_exec_time desc`

const queryStatementTotals = `select
        sum(calls)::float8 as calls,
        sum(total_exec_time) as total_time,
        sum(rows)::float8 as rows
    from pg_stat_statements`

const queryTableActivity = `select
        schemaname as schemaname,
        relname as relname,
        seq_scan::float8 as seq_scan,
        seq_tup_read::float8 as seq_tup_read,
        pg_total_relation_size(relid)::float8 as size_bytes
    from pg_stat_user_tables`
