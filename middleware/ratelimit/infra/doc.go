// Package infra contém implementações concretas para os contratos do pacote domain.
//
//   - MemoryWindowStore: sliding log por chave, em memória (um processo)
//   - RedisWindowStore: sliding log em ZSET com script Lua atômico (vários processos)
//   - ChanPool: semáforo simples para limite de concorrência
//   - MemoryStatsStore / RedisStatsStore / PrometheusStatsStore: estatísticas das decisões
package infra
